// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

// SchemeToranomon is the built-in simplified label scheme, modeled on the
// Toranomon hospital drug-risk categories.
const SchemeToranomon = "toranomon"

// ToranomonPregnant maps a pregnancy score to its simplified label.
func ToranomonPregnant(score int) string {
	switch score {
	case 3:
		return "D/X"
	case 2:
		return "C"
	case 1:
		return "B"
	default:
		return "不明"
	}
}

// ToranomonNursing maps a nursing score to its simplified label.
func ToranomonNursing(score int) string {
	switch score {
	case 3:
		return "授乳中止"
	case 2:
		return "有益性考慮"
	case 1:
		return "情報提供"
	default:
		return "不明"
	}
}
