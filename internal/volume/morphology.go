package volume

// Offsets of a ball structuring element with the given voxel radius.
func ballOffsets(radius int) [][3]int {
	var offs [][3]int
	r2 := radius * radius
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy+dz*dz <= r2 {
					offs = append(offs, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return offs
}

// morphFilter applies a min- or max-filter over the structuring element.
// Out-of-bounds neighbors read as background, so dilation never bleeds in
// from outside and erosion strips the outermost voxel layer, matching the
// zero boundary condition of the grid accessor.
func morphFilter(g *Grid, offs [][3]int, pick func(cur, v uint8) uint8, init uint8) *Grid {
	out := NewGrid(g.Nx, g.Ny, g.Nz, g.Spacing, g.Origin, g.Direction)
	for z := 0; z < g.Nz; z++ {
		for y := 0; y < g.Ny; y++ {
			for x := 0; x < g.Nx; x++ {
				v := init
				for _, o := range offs {
					v = pick(v, g.At(x+o[0], y+o[1], z+o[2]))
				}
				out.Set(x, y, z, v)
			}
		}
	}
	return out
}

func maxPick(cur, v uint8) uint8 {
	if v > cur {
		return v
	}
	return cur
}

func minPick(cur, v uint8) uint8 {
	if v < cur {
		return v
	}
	return cur
}

// Dilate grows labeled regions by a ball of the given voxel radius.
func Dilate(g *Grid, radius int) *Grid {
	return morphFilter(g, ballOffsets(radius), maxPick, 0)
}

// Erode shrinks labeled regions by a ball of the given voxel radius.
func Erode(g *Grid, radius int) *Grid {
	return morphFilter(g, ballOffsets(radius), minPick, 255)
}

// Close performs grayscale morphological closing, a dilation followed by
// an erosion with the same ball structuring element. It fills holes and
// gaps up to roughly the structuring element radius. A radius of 0 is a
// no-op.
func Close(g *Grid, radius int) *Grid {
	if radius <= 0 {
		return g
	}
	return Erode(Dilate(g, radius), radius)
}
