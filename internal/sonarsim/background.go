package sonarsim

// applyWarmupShortcut implements spec §4.4 step 1: while warmup frames
// remain and no swimmers exist, blend intensity into background at a
// faster warmup alpha and emit no candidates. Returns true if the warmup
// shortcut consumed this frame (callers must skip the rest of the
// detection pipeline).
func applyWarmupShortcut(frame *Frame, hasSwimmers bool) bool {
	if frame.WarmupFramesLeft <= 0 || hasSwimmers {
		return false
	}
	for i := range frame.Background {
		frame.Background[i] += WarmupAlpha * (frame.Intensity[i] - frame.Background[i])
	}
	frame.WarmupFramesLeft--
	return true
}

// updateBackground implements spec §4.4 step 6: for each observed angle
// column, blend intensity into background with alpha, but only where the
// cell didn't spike above background+slack (a spike is assumed to be a
// genuine detection, not a background drift, and is excluded from the EMA
// to keep the background model stable under passing targets).
func updateBackground(frame *Frame, alpha float32) {
	for aIdx := 0; aIdx < ImagingFrameAngleBins; aIdx++ {
		if !frame.ObservedAngles[aIdx] {
			continue
		}
		base := aIdx * ImagingRangeBins
		for rIdx := 0; rIdx < ImagingRangeBins; rIdx++ {
			i := base + rIdx
			if frame.Intensity[i] <= frame.Background[i]+BackgroundUpdateSlack {
				frame.Background[i] += alpha * (frame.Intensity[i] - frame.Background[i])
			}
		}
	}
}

// subtractBackground implements spec §4.4 step 2:
// subtracted[i] = max(0, intensity[i] - background[i]).
func subtractBackground(frame *Frame) {
	for i := range frame.Subtracted {
		d := frame.Intensity[i] - frame.Background[i]
		if d < 0 {
			d = 0
		}
		frame.Subtracted[i] = d
	}
}
