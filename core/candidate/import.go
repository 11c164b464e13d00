package candidate

import (
	"context"
	"encoding/json"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/core/fee"
)

// importItem is one element of a JSON backup. Numbers may arrive as JSON strings
// and fractional ids are truncated.
type importItem struct {
	Registration
	ID            json.Number `json:"id"`
	FeePaidSchool json.Number `json:"feePaidSchool"`
	FeePaidEcz    json.Number `json:"feePaidEcz"`
	PaymentStatus fee.Status  `json:"paymentStatus"`
	Query         bool        `json:"query"`
	RegDate       string      `json:"regDate"`
	Timestamp     json.Number `json:"timestamp"`
	CreatedBy     string      `json:"createdBy"`
}

func number(n json.Number) float64 {
	if n == "" {
		return 0
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (item importItem) candidate() Candidate {
	reg := item.Registration
	reg.ID = int64(number(item.ID))
	reg.FeePaidSchool = math.Max(number(item.FeePaidSchool), 0)
	reg.FeePaidEcz = math.Max(number(item.FeePaidEcz), 0)
	if reg.Gender != GenderMale && reg.Gender != GenderFemale {
		reg.Gender = ""
	}
	reg.Clean()

	c := reg.candidate()
	c.Query = item.Query || item.PaymentStatus == fee.StatusQuery
	c.RegDate = core.CleanString(item.RegDate)
	c.Timestamp = int64(number(item.Timestamp))
	c.CreatedBy = core.CleanString(item.CreatedBy)
	return c
}

// Import saves every item of a JSON array carrying a surname and a national id;
// other items are skipped. Items go through the same fee and status recompute as Save
// and are written in one go: a malformed file or a failed write imports nothing.
func (svc *Service) Import(ctx context.Context, r io.Reader, actor string) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Wrap(err, "reading import")
	}
	var raw []json.RawMessage
	if err = json.Unmarshal(data, &raw); err != nil {
		return 0, errors.WithMessage(ErrMalformedImport, err.Error())
	}
	items := make([]Candidate, 0, len(raw))
	for i, msg := range raw {
		var item importItem
		if err = json.Unmarshal(msg, &item); err != nil {
			return 0, errors.WithMessagef(ErrMalformedImport, "item %d: %v", i, err)
		}
		if core.CleanString(item.Surname) == "" || core.CleanString(item.NRC) == "" {
			continue
		}
		items = append(items, item.candidate())
	}
	if len(items) == 0 {
		return 0, nil
	}

	sched, err := svc.schedule(ctx)
	if err != nil {
		return 0, err
	}

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	records, err := svc.load(ctx)
	if err != nil {
		return 0, err
	}
	messages := make([]string, 0, len(items))
	for _, item := range items {
		c, idx := svc.prepare(records, item, sched, actor)
		records = upsert(records, c, idx)
		messages = append(messages, saveMessage(c, idx < 0))
	}
	if err = svc.save(ctx, records); err != nil {
		return 0, err
	}
	for _, msg := range messages {
		svc.auditor.Log(ctx, msg)
	}
	return len(items), nil
}
