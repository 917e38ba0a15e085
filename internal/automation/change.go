package automation

const (
	ChangeKindStatus = "status_change"
	ChangeKindFlag   = "flag_set"
	ChangeKindOther  = "other"
)

// Change is one audited mutation performed by a job. Known kinds carry
// typed fields so consumers can match on them; anything else goes through
// the generic key-value fallback.
type Change struct {
	Kind      string `json:"kind"`
	BookingID string `json:"booking_id,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Flag      string `json:"flag,omitempty"`
	Key       string `json:"key,omitempty"`
	Value     string `json:"value,omitempty"`
}

func StatusChange(bookingID, from, to string) Change {
	return Change{
		Kind:      ChangeKindStatus,
		BookingID: bookingID,
		From:      from,
		To:        to,
	}
}

func FlagSet(bookingID, flag string) Change {
	return Change{
		Kind:      ChangeKindFlag,
		BookingID: bookingID,
		Flag:      flag,
	}
}

func OtherChange(key, value string) Change {
	return Change{
		Kind:  ChangeKindOther,
		Key:   key,
		Value: value,
	}
}
