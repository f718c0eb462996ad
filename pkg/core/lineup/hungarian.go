package lineup

import "math"

// minCostAssign solves the minimum-cost perfect matching on a square cost
// matrix using the Hungarian algorithm with potentials (O(n³)). Returns
// assignment[row] = column. Deterministic for identical input.
func minCostAssign(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	// 1-indexed potentials and matching, column 0 is the virtual source.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	matchedRow := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		matchedRow[0] = i
		j0 := 0

		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		// Grow the alternating tree until a free column is reached.
		for {
			used[j0] = true
			i0 := matchedRow[j0]
			delta := math.Inf(1)
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[matchedRow[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if matchedRow[j0] == 0 {
				break
			}
		}

		// Unwind the augmenting path.
		for j0 != 0 {
			j1 := way[j0]
			matchedRow[j0] = matchedRow[j1]
			j0 = j1
		}
	}

	assignment := make([]int, n)
	for j := 1; j <= n; j++ {
		if matchedRow[j] > 0 {
			assignment[matchedRow[j]-1] = j - 1
		}
	}
	return assignment
}
