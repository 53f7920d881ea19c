package engine

// TerrainHistogram counts every terrain kind in the grid
func TerrainHistogram(grid *Grid) map[Terrain]int {
	hist := make(map[Terrain]int, len(terrains))
	for _, t := range terrains {
		hist[t] = 0
	}
	for _, c := range grid.cells {
		hist[c]++
	}
	return hist
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
