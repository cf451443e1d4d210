package chart

// OtherLabel names the synthetic category that absorbs the tail when a spec
// has more categories than the configured maximum.
const OtherLabel = "Other"

// collapseTopN keeps the first max values and folds the remainder into a
// trailing "Other" entry. Bar and pie charts share this helper so the two
// visual encodings of the same aggregate can never diverge. Values are
// assumed already ordered by magnitude; order is preserved.
func collapseTopN(values []Value, max int) []Value {
	if max <= 0 || len(values) <= max {
		return values
	}

	collapsed := make([]Value, 0, max+1)
	collapsed = append(collapsed, values[:max]...)

	var rest int64
	for _, v := range values[max:] {
		rest += v.Value
	}
	return append(collapsed, Value{Label: OtherLabel, Value: rest})
}
