package detection

import (
	"fmt"

	"gocv.io/x/gocv"

	"motioncrop/tracking"
)

// SelectRegions finds every foreground boundary in mask, including nested
// ones, and picks the one enclosing the largest area. Regions keep the order
// in which the boundary scan discovered them.
func SelectRegions(mask gocv.Mat) Selection {
	contours := gocv.FindContours(mask, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	sel := Selection{Dominant: -1}
	if contours.Size() == 0 {
		debugMsg("REGIONS", "no foreground regions")
		return sel
	}

	points := contours.ToPoints()
	sel.Regions = make([]tracking.Region, len(points))
	for i, boundary := range points {
		sel.Regions[i] = tracking.NewRegion(boundary)
	}
	sel.Dominant = tracking.DominantIndex(sel.Regions)

	if sel.HasDominant() {
		debugMsg("REGIONS", fmt.Sprintf("%d regions, dominant #%d area=%.1f",
			len(sel.Regions), sel.Dominant, sel.Regions[sel.Dominant].Area))
	} else {
		debugMsg("REGIONS", fmt.Sprintf("%d regions, none with positive area", len(sel.Regions)))
	}

	return sel
}
