package core

import "encoding/json"

type (
	// Bankcontact holds the FinTS access data of one online-banking login.
	// FintsPassword is only ever set on outgoing saves.
	Bankcontact struct {
		ID            int64  `json:"id" yaml:"id"`
		Name          string `json:"name" yaml:"name"`
		FintsURL      string `json:"fintsUrl" yaml:"fintsUrl"`
		FintsBankID   string `json:"fintsBankId" yaml:"fintsBankId"`
		FintsUserID   string `json:"fintsUserId" yaml:"fintsUserId"`
		FintsPassword string `json:"fintsPassword,omitempty" yaml:"-"`
	}

	// TANResponse answers a TAN challenge raised by the bank.
	TANResponse struct {
		TANReference string `json:"tanReference"`
		TAN          string `json:"tan"`
	}

	// BankResult is the raw answer of a FinTS-backed call: either the data or
	// a TAN challenge, depending on what the bank demanded.
	BankResult struct {
		Data json.RawMessage `json:"data" yaml:"-"`
	}
)

// Challenge decodes a pending TAN challenge if the bank raised one.
func (r BankResult) Challenge() (TANChallenge, bool) {
	var c TANChallenge
	if len(r.Data) == 0 || json.Unmarshal(r.Data, &c) != nil || c.TANReference == "" {
		return TANChallenge{}, false
	}
	return c, true
}

// TANChallenge asks the user to confirm an operation with a TAN.
type TANChallenge struct {
	TANReference string `json:"tanReference" yaml:"tanReference"`
	Challenge    string `json:"challenge" yaml:"challenge"`
}
