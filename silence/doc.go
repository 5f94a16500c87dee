// SPDX-License-Identifier: EPL-2.0

// Package silence finds and strips quiet spans of an audio.Buffer.
//
// Detection runs per channel and reports Regions in seconds, so results do
// not depend on the sample rate. Removal first coalesces the regions of all
// channels with MergeRegions, which makes a time range removable as soon as
// it is silent on any one channel:
//
//	regions, _ := silence.Detect(buf, silence.DefaultOptions())
//	for _, r := range silence.MergeRegions(regions) {
//		fmt.Printf("%.3fs - %.3fs\n", r.Start, r.End)
//	}
//
//	trimmed, err := silence.Remove(audio.HeapAllocator{}, buf, silence.DefaultOptions())
package silence
