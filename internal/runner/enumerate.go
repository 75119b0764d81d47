package runner

import "github.com/mgarton/screenrun/pkg/models"

// Enumerate builds the ordered (target, trial) pair list: targets in declared
// order, trials ascending, with the experiment index assigned as the pair's
// enumeration position. The index advances for every pair, whether or not
// its work later runs, so index filters stay stable across reruns.
func Enumerate(targets []string, trialStart, trialEnd int) []models.Pair {
	if trialEnd < trialStart {
		return nil
	}

	pairs := make([]models.Pair, 0, len(targets)*(trialEnd-trialStart+1))
	index := 0
	for _, target := range targets {
		for trial := trialStart; trial <= trialEnd; trial++ {
			pairs = append(pairs, models.Pair{
				Index:  index,
				Target: target,
				Trial:  trial,
			})
			index++
		}
	}
	return pairs
}
