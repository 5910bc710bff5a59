package domain

import "math"

// KillTransfer считает, сколько очков переходит от жертвы к убийце.
//
// Отношение счетов возводится в квадрат и зажимается в [KillRatioMin, KillRatioMax]:
// фарм слабых игроков почти ничего не дает, победа над сильным - до 4x.
// Результат не превышает счет жертвы.
func KillTransfer(victimScore, killerScore int) int {
	if victimScore <= 0 {
		return 0
	}

	ratio := KillRatioMax
	if killerScore > 0 {
		r := float64(victimScore) / float64(killerScore)
		ratio = r * r
	}
	ratio = math.Max(KillRatioMin, math.Min(KillRatioMax, ratio))

	d := int(math.Round(KillBaseBonus * ratio))
	if d > victimScore {
		d = victimScore
	}
	return d
}

// PenalizedScore вычитает фиксированный штраф, не опуская счет ниже нуля.
func PenalizedScore(score int) int {
	score -= DeathPenalty
	if score < 0 {
		return 0
	}
	return score
}
