package trace

import "fmt"

// Violation is a frame that exposed the clear layer too early.
type Violation struct {
	RunID   string
	Seq     uint64
	Section string
	Reason  string
}

func (v Violation) String() string {
	return fmt.Sprintf("frame %d (%s): %s", v.Seq, v.Section, v.Reason)
}

// Verify checks that every frame showing the clear layer directly follows a
// frame of the same run that committed the same blurred source fully opaque.
// Records must be in commit order.
func Verify(records []Record) []Violation {
	var violations []Violation
	for i, rec := range records {
		if rec.ClearOpacity <= 0 {
			continue
		}
		flag := func(reason string) {
			violations = append(violations, Violation{RunID: rec.RunID, Seq: rec.Seq, Section: rec.Section, Reason: reason})
		}
		if rec.BlurredSource == "" {
			flag("clear layer visible without a blurred source")
			continue
		}
		if i == 0 || records[i-1].RunID != rec.RunID {
			flag("clear layer visible in the first frame")
			continue
		}
		prev := records[i-1]
		switch {
		case prev.BlurredSource != rec.BlurredSource:
			flag("clear layer visible in the frame that attached its sources")
		case prev.BlurredOpacity < 1:
			flag(fmt.Sprintf("previous frame had blurred opacity %.2f", prev.BlurredOpacity))
		}
	}
	return violations
}
