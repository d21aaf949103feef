package sonarsim

// detectFrame runs the full per-frame detection pipeline of spec §4.4 over
// one sonar's frame buffer and returns the candidates surviving to the end
// of the pipeline, or nil if the warmup shortcut consumed the frame or no
// cluster survived plausibility filtering at any kernel size.
//
// Step order: warmup shortcut -> background subtraction -> weak-echo mask
// -> adaptive dual-kernel denoise + DBSCAN + candidate extraction, retried
// at increasing kernel size until a cluster survives or the kernel cap is
// reached -> background EMA update.
func detectFrame(frame *Frame, cfg SonarConfig, tuning Tuning, seed uint32, nowSec float64, hasSwimmers bool) []Candidate {
	if applyWarmupShortcut(frame, hasSwimmers) {
		return nil
	}

	subtractBackground(frame)
	threshold := weakEchoThreshold(frame, tuning)
	buildMask(frame, threshold)

	var candidates []Candidate
	for k := MinKernelSize; k <= tuning.KernelCap; k += KernelSizeStep {
		majorityFilter1D(frame.MaskSmall, frame.Mask, k)
		large := largeKernelSize(k, tuning.KernelCap)
		majorityFilter1D(frame.MaskLarge, frame.Mask, large)

		candidates = buildCandidates(frame, cfg, tuning, seed, nowSec, threshold)
		if len(candidates) > 0 {
			break
		}
	}

	updateBackground(frame, BackgroundAlpha)
	return candidates
}
