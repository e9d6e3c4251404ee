// Package ordering implements the order-index bookkeeping shared by groups
// within a tab and bookmarks within a group. All functions are pure; the
// service layer translates their results into bulk storage updates.
package ordering

// NextIndex returns the order index for an item appended to a scope.
// Empty scopes start at zero; otherwise the item lands after the current
// maximum. Appending never requires resequencing existing siblings.
func NextIndex(maxIndex int, empty bool) int {
	if empty {
		return 0
	}
	return maxIndex + 1
}

// ClampTarget clamps a requested order index to the valid range for a scope
// with count siblings. Targets beyond the end mean "move to end". Negative
// targets are a caller error and must be rejected before reaching here;
// clamping them to zero keeps the function total.
func ClampTarget(target, count int) int {
	if count <= 0 {
		return 0
	}
	if target < 0 {
		return 0
	}
	if target > count-1 {
		return count - 1
	}
	return target
}

// ShiftPlan describes the sibling range update needed to move an item from
// one order index to another within the same scope: every sibling with an
// index in [Lo, Hi] gets Delta added, then the moved item takes the target
// index directly.
type ShiftPlan struct {
	Lo    int
	Hi    int
	Delta int
}

// PlanMove computes the closed-interval shift for moving an item from index
// old to index target. Moving earlier shifts the displaced range later
// (+1); moving later shifts it earlier (-1). The second return is false when
// old == target and nothing needs to change.
//
// The plan is equivalent to removing the item from a dense sequence and
// reinserting it at the target, expressed as one bounded range update so the
// store can apply it as a single bulk increment or decrement.
func PlanMove(old, target int) (ShiftPlan, bool) {
	switch {
	case target == old:
		return ShiftPlan{}, false
	case target < old:
		return ShiftPlan{Lo: target, Hi: old - 1, Delta: 1}, true
	default:
		return ShiftPlan{Lo: old + 1, Hi: target, Delta: -1}, true
	}
}

// DiffIDs splits a desired id list against a current one: toAdd holds
// desired ids not currently present (in desired order), toRemove holds
// current ids absent from desired (in current order). Ids in both lists are
// untouched, which preserves their existing order indexes.
func DiffIDs(current, desired []string) (toAdd, toRemove []string) {
	have := make(map[string]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[string]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	for _, id := range desired {
		if !have[id] {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !want[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
