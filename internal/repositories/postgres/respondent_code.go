package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pojokcurhat/survey-service/internal/models"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeGenerator allocates sequential respondent codes (A01, A02, ... Z99).
// When the two-digit space is exhausted it widens to three digits (A100).
type CodeGenerator struct {
	db *gorm.DB
}

func NewCodeGenerator(db *gorm.DB) *CodeGenerator {
	return &CodeGenerator{db: db}
}

// NextCode derives the next free respondent code from the current survey
// count, probing forward past any codes already taken. Under read committed
// a concurrent transaction can still probe the same code; the unique index
// on respondent_code is the real guard, and CreateWithResponses retries
// with a fresh probe on that collision.
func (g *CodeGenerator) NextCode(ctx context.Context, tx *gorm.DB) (string, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Survey{}).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to count surveys: %w", err)
	}

	for offset := int64(0); offset < 100; offset++ {
		code := CodeForOrdinal(count + offset)
		var taken int64
		err := tx.WithContext(ctx).
			Model(&models.Survey{}).
			Where("respondent_code = ?", code).
			Count(&taken).Error
		if err != nil {
			return "", fmt.Errorf("failed to probe respondent code: %w", err)
		}
		if taken == 0 {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not allocate respondent code after 100 probes")
}

// CodeForOrdinal maps a zero-based ordinal to a respondent code.
// Ordinals 0..98 map to A01..A99, 99..197 to B01..B99, and so on.
// Beyond Z99 the digit run widens: ordinal 2574 becomes A100.
func CodeForOrdinal(ordinal int64) string {
	const perLetter = 99
	letters := int64(len(codeAlphabet))

	if ordinal < perLetter*letters {
		letter := codeAlphabet[ordinal/perLetter]
		number := ordinal%perLetter + 1
		return fmt.Sprintf("%c%02d", letter, number)
	}

	overflow := ordinal - perLetter*letters
	const perLetterWide = 900 // 100..999
	letter := codeAlphabet[(overflow/perLetterWide)%letters]
	number := overflow%perLetterWide + 100
	return fmt.Sprintf("%c%03d", letter, number)
}
