package termsheet

import (
	"time"

	"github.com/google/uuid"
)

// SampleResult returns a fixed demonstration report. It does not run the validator.
func SampleResult(documentName string, now func() time.Time) *ValidationResult {
	if now == nil {
		now = time.Now
	}
	return &ValidationResult{
		ID:           uuid.NewString(),
		Status:       StatusSuccess,
		OverallScore: 0.83,
		Fields: []FieldValidation{
			{Field: "TRADE DATE", Value: "2023-05-15", IsValid: true, Confidence: 0.98},
			{Field: "EFFECTIVE DATE", Value: "2023-05-18", IsValid: true, Confidence: 0.96},
			{Field: "MATURITY DATE", Value: "2024-05-18", IsValid: true, Confidence: 0.97},
			{Field: "NOTIONAL AMOUNT", Value: "USD 10,000,000", IsValid: true, Confidence: 0.99},
			{Field: "DEALER", Value: "Global Bank Ltd", IsValid: true, Confidence: 0.92},
			{Field: "COUNTERPARTY", Value: "Hedge Fund Capital LLC", IsValid: true, Confidence: 0.94},
			{
				Field:      "PAYMENT TERMS",
				Value:      "Quarterly",
				Expected:   "Monthly",
				IsValid:    false,
				Confidence: 0.65,
				Message:    "Payment frequency does not match standard terms",
			},
			{Field: "SETTLEMENT CURRENCY", Value: "USD", IsValid: true, Confidence: 0.98},
		},
		Timestamp:      now().UTC(),
		DocumentName:   documentName,
		DocumentType:   DocumentTypePDF,
		ProcessingTime: 1.2,
	}
}

// SampleKind selects one of the canned term-sheet texts.
type SampleKind string

const (
	SampleEquitySwap       SampleKind = "equity"
	SampleInterestRateSwap SampleKind = "interest"
	SampleFXForward        SampleKind = "fx"
	SampleGeneric          SampleKind = "generic"
)

// SampleKinds lists every SampleKind.
var SampleKinds = []SampleKind{SampleEquitySwap, SampleInterestRateSwap, SampleFXForward, SampleGeneric}

// SampleText returns the canned text for kind; unknown kinds get the generic sheet.
func SampleText(kind SampleKind) string {
	switch kind {
	case SampleEquitySwap:
		return equitySwapText
	case SampleInterestRateSwap:
		return interestRateSwapText
	case SampleFXForward:
		return fxForwardText
	default:
		return genericText
	}
}

const equitySwapText = `EQUITY SWAP TERM SHEET

TRADE DATE: 2023-05-15
EFFECTIVE DATE: 2023-05-18
MATURITY DATE: 2024-05-18

NOTIONAL AMOUNT: USD 10,000,000
EQUITY UNDERLYING: AAPL US Equity
DEALER: Global Bank Ltd
COUNTERPARTY: Hedge Fund Capital LLC

PAYMENT DETAILS:
- Equity Return: Counterparty receives 100% of price appreciation
- Financing Fee: LIBOR + 50bps paid quarterly
- Dividend: 100% of dividends passed to Counterparty
- Settlement: Cash settlement in USD
`

const interestRateSwapText = `INTEREST RATE SWAP TERM SHEET

TRADE DATE: 2023-06-20
EFFECTIVE DATE: 2023-06-25
TERMINATION DATE: 2028-06-25

NOTIONAL AMOUNT: EUR 15,000,000
FIXED RATE PAYER: Corporate Finance Inc.
FIXED RATE: 3.25% per annum
FIXED RATE PAYMENT DATES: Semi-annually on 25th

FLOATING RATE PAYER: Investment Bank AG
FLOATING RATE: 6M EURIBOR
FLOATING RATE PAYMENT DATES: Semi-annually on 25th

BUSINESS DAY CONVENTION: Modified Following
CALCULATION AGENT: Investment Bank AG
`

const fxForwardText = `FX FORWARD TERM SHEET

TRADE DATE: 2023-07-10
SETTLEMENT DATE: 2023-10-10

CURRENCY PAIR: EUR/USD
DIRECTION: Client buys EUR, sells USD
AMOUNT: EUR 5,000,000
FORWARD RATE: 1.1025
USD EQUIVALENT: USD 5,512,500

CLIENT: European Exports Ltd
DEALER: Global FX Bank
SETTLEMENT INSTRUCTIONS: Via SWIFT
`

const genericText = `GENERIC TERM SHEET

TRADE DATE: 2023-08-01
EFFECTIVE DATE: 2023-08-05
MATURITY DATE: 2025-08-05

PRODUCT TYPE: Structured Note
NOTIONAL: USD 5,000,000
ISSUER: Financial Products Inc.
INVESTOR: Institutional Investor LLC

COUPON: 4.5% p.a. paid quarterly
UNDERLYING: S&P 500 Index
BARRIER LEVEL: 75% of initial level
CALL FEATURE: Callable after 12 months at 102%
`
