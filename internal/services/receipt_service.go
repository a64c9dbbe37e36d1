package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"inversiones-bot/internal/ocr"
)

// AmountTolerance is the accepted absolute difference between the detected
// and expected monto. Receipts render totals inconsistently (fees, decimals
// folded into the digit run), so the match is approximate.
var AmountTolerance = decimal.NewFromInt(2000)

var digitRuns = regexp.MustCompile(`\d{3,}`)

// ReceiptVerifier performs the best-effort pre-check on extracted receipt
// text. Its verdict never blocks persistence; it only changes the
// notification text so the admin knows whether manual scrutiny is urgent.
type ReceiptVerifier struct {
	extractor   ocr.Extractor
	destination string
}

// NewReceiptVerifier builds a verifier for the configured payment
// destination. extractor may be nil when the environment has no OCR support.
func NewReceiptVerifier(extractor ocr.Extractor, destination string) *ReceiptVerifier {
	return &ReceiptVerifier{extractor: extractor, destination: destination}
}

// VerifyArtifact extracts text from the receipt image and pre-checks it.
// Extraction problems are converted to a negative verdict, never an error.
func (v *ReceiptVerifier) VerifyArtifact(ctx context.Context, path string, amount int64) (ok bool, reason string, text string) {
	if v.extractor == nil {
		return false, ocr.ErrUnavailable.Error(), ""
	}

	text, err := v.extractor.Extract(ctx, path)
	if err != nil {
		return false, err.Error(), ""
	}

	ok, reason = v.PreCheck(text, amount)
	return ok, reason, text
}

// PreCheck decides whether the extracted text plausibly shows a transfer of
// amount to the configured destination. The candidate monto is the longest
// run of 3+ digits after stripping thousands separators; the longest string
// wins, not the numerically largest, with ties going to the earliest run.
func (v *ReceiptVerifier) PreCheck(text string, amount int64) (bool, string) {
	stripped := strings.NewReplacer(".", "", ",", "").Replace(text)
	runs := digitRuns.FindAllString(stripped, -1)

	var candidate string
	for _, run := range runs {
		if len(run) > len(candidate) {
			candidate = run
		}
	}

	compact := strings.NewReplacer(" ", "", "\n", "").Replace(text)

	if strings.Contains(compact, v.destination) && candidate != "" {
		detected, err := decimal.NewFromString(candidate)
		if err == nil {
			diff := detected.Sub(decimal.NewFromInt(amount)).Abs()
			if diff.LessThanOrEqual(AmountTolerance) {
				return true, ""
			}
		}
	}

	return false, "No se detectó número destino o monto coincidente."
}
