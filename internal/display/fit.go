package display

import "math"

// fitPolicy selects which scaling rule applies once we know the image
// does not simply fit as-is. Derived from the FillWidth/FillHeight flags
// so the tie-break order stays in one place.
type fitPolicy int

const (
	fitContain fitPolicy = iota // classic letterbox: never overflow either axis
	fitHeight                   // fill vertical space, width may overflow
	fitWidth                    // fill horizontal space, height may overflow
	fitCover                    // fill both, overflow whatever is necessary
)

func policyFor(o *Options) fitPolicy {
	switch {
	case o.FillWidth && o.FillHeight:
		return fitCover
	case o.FillHeight:
		return fitHeight
	case o.FillWidth:
		return fitWidth
	default:
		return fitContain
	}
}

// Stretch factors outside this range would produce absurd geometry, so we
// clamp rather than trust a bogus terminal report.
const maxStretchFactor = 5.0

// CalcScaleToFit computes the pixel dimensions an image of imgW x imgH
// must be scaled to so it fits the display area described by opts.
// With fitInRotated the fit happens in 90-degree-rotated space: the
// caller intends to rotate the image after scaling, so width and height
// constraints trade places and the stretch correction inverts.
//
// The returned dimensions are always at least 1x1. needsScale reports
// whether the result differs from the source size.
func CalcScaleToFit(imgW, imgH int, opts *Options, fitInRotated bool) (targetW, targetH int, needsScale bool) {
	o := *opts
	if fitInRotated {
		o.Width, o.Height = o.Height, o.Width
		o.FillWidth, o.FillHeight = o.FillHeight, o.FillWidth
		o.WidthStretch = 1.0 / opts.WidthStretch
	}

	stretch := o.WidthStretch
	if stretch > maxStretchFactor {
		stretch = maxStretchFactor
	}
	if stretch < 1/maxStretchFactor {
		stretch = 1 / maxStretchFactor
	}

	// Apply the cell aspect correction to the available area, not the
	// image: with wide cells we pretend to have less horizontal space,
	// with narrow cells more vertical space.
	if stretch > 1.0 {
		o.Width = int(float64(o.Width) / stretch)
	} else {
		o.Height = int(float64(o.Height) * stretch)
	}

	widthFraction := float64(o.Width) / float64(imgW)
	heightFraction := float64(o.Height) / float64(imgH)

	// If the image is smaller than the display, keep it at its natural
	// size unless upscaling was requested. A filled axis is exempt from
	// the check: its fraction is allowed to require shrinking.
	if !o.Upscale && (o.FillHeight || widthFraction > 1.0) &&
		(o.FillWidth || heightFraction > 1.0) {
		targetW, targetH = imgW, imgH
		if o.CellXPx == 2 {
			// Quarter-block cells pack two pixels per cell width,
			// so even an unscaled image needs its width doubled to
			// keep its proportions on that grid.
			return targetW * 2, targetH, true
		}
		return targetW, targetH, false
	}

	targetW, targetH = o.Width, o.Height
	switch policyFor(&o) {
	case fitCover:
		// Largest fraction wins: fill all available space and let the
		// other axis overflow. Used by edge-to-edge scroll modes.
		f := math.Max(widthFraction, heightFraction)
		targetW = int(math.Round(f * float64(imgW)))
		targetH = int(math.Round(f * float64(imgH)))
	case fitHeight:
		// Height constraint stays; width may grow past the display.
		targetW = int(math.Round(heightFraction * float64(imgW)))
	case fitWidth:
		targetH = int(math.Round(widthFraction * float64(imgH)))
	case fitContain:
		// Whatever limits first.
		f := math.Min(widthFraction, heightFraction)
		targetW = int(math.Round(f * float64(imgW)))
		targetH = int(math.Round(f * float64(imgH)))
	}

	// Undo the area correction from above on the final dimensions.
	if stretch > 1.0 {
		targetW = int(float64(targetW) * stretch)
	} else {
		targetH = int(float64(targetH) / stretch)
	}

	// In the block modes, floor to whole character cells.
	if o.CellXPx > 0 && o.CellXPx <= 2 && o.CellYPx > 0 && o.CellYPx <= 2 {
		targetW = targetW / o.CellXPx * o.CellXPx
		targetH = targetH / o.CellYPx * o.CellYPx
	}

	// Don't scale down to nothing.
	if targetW <= 0 {
		targetW = 1
	}
	if targetH <= 0 {
		targetH = 1
	}

	if o.UpscaleInteger && targetW > imgW && targetH > imgH {
		// Restrict to whole-number magnification. The quarter-block
		// width doubling must be factored out before computing the
		// magnification and re-applied afterwards.
		aspectCorrect := 1.0
		if o.CellXPx == 2 {
			aspectCorrect = 2.0
		}
		wf := float64(targetW) / aspectCorrect / float64(imgW)
		hf := float64(targetH) / float64(imgH)
		factor := math.Floor(math.Min(wf, hf))
		if factor > 1.0 {
			targetW = int(aspectCorrect * factor * float64(imgW))
			targetH = int(factor) * imgH
		}
	}

	return targetW, targetH, targetW != imgW || targetH != imgH
}
