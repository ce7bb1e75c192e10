package http

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSnowflakeValidation(t *testing.T) {
	type P struct {
		GuildID string `param:"guild_id" validate:"snowflake"`
	}
	cv := NewValidator()

	for _, s := range []string{"123456789012345", testGuild, "123456789012345678901"} {
		if err := cv.Validate(P{GuildID: s}); err != nil {
			t.Fatalf("expected %q valid, got %v", s, err)
		}
	}
	for _, s := range []string{
		"",
		"12345678901234",         // 14 digits
		"1234567890123456789012", // 22 digits
		"11111111111111111a",
		" " + testGuild,
	} {
		err := cv.Validate(P{GuildID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "guild_id", "discord id") {
			t.Fatalf("expected snowflake message for %q, got: %+v", s, fe)
		}
	}
}

func TestTicketValidation(t *testing.T) {
	type P struct {
		LoanID string `param:"loan_id" validate:"loanid"`
		TxnID  string `param:"txn_id"  validate:"txnid"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{LoanID: "L0421", TxnID: "I9310"}); err != nil {
		t.Fatalf("expected valid tickets, got %v", err)
	}
	err := cv.Validate(P{LoanID: "I0421", TxnID: "L9310"})
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "loan_id", "L0421") || !containsFieldMsg(fe, "txn_id", "I0421") {
		t.Fatalf("unexpected details: %+v", fe)
	}
	for _, s := range []string{"L421", "L04210", "l0421", "LABCD"} {
		if err := cv.Validate(P{LoanID: s, TxnID: "I0001"}); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestDecimalValidation(t *testing.T) {
	type P struct {
		Rate decimal.Decimal `json:"rate" validate:"gte=0,dec2"`
	}
	cv := NewValidator()

	for _, s := range []string{"0", "12.5", "30.25"} {
		if err := cv.Validate(P{Rate: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("expected %s valid, got %v", s, err)
		}
	}
	tests := map[string]string{
		"-1":    "greater than or equal to 0",
		"1.234": "at most 2 decimal places",
	}
	for in, msg := range tests {
		err := cv.Validate(P{Rate: decimal.RequireFromString(in)})
		if err == nil {
			t.Fatalf("expected error for %s", in)
		}
		if fe := ToFieldErrors(err); !containsFieldMsg(fe, "rate", msg) {
			t.Fatalf("%s: expected %q, got %+v", in, msg, fe)
		}
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	type P struct {
		Amount  int64  `json:"amount"   validate:"gt=0"`
		Weeks   int    `json:"weeks"    validate:"lte=4"`
		Status  string `query:"status"  validate:"omitempty,oneof=active pending"`
		Enabled *bool  `json:"enabled"  validate:"required"`
	}
	err := NewValidator().Validate(P{Amount: 0, Weeks: 9, Status: "closed"})
	fe := ToFieldErrors(err)

	for field, msg := range map[string]string{
		"amount":  "greater than 0",
		"weeks":   "less than or equal to 4",
		"status":  "one of active pending",
		"enabled": "is required",
	} {
		if !containsFieldMsg(fe, field, msg) {
			t.Fatalf("missing %s/%q in %+v", field, msg, fe)
		}
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || !strings.Contains(fe[0].Message, "boom") {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}
