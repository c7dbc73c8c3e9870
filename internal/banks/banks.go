// Package banks classifies message senders as known bank sender ids and
// resolves them to human-readable bank names.
package banks

import (
	"regexp"
	"strings"

	"fjacquet/sms-ledger/internal/models"

	"golang.org/x/text/unicode/norm"
)

// DefaultSenders are the built-in bank sender ids.
var DefaultSenders = []models.BankSender{
	{ID: "AXISBK", Name: "Axis Bank"},
	{ID: "HDFCBK", Name: "HDFC Bank"},
	{ID: "ICICIB", Name: "ICICI Bank"},
	{ID: "SBIIN", Name: "State Bank of India"},
	{ID: "PNBSMS", Name: "Punjab National Bank"},
	{ID: "KOTAKB", Name: "Kotak Mahindra Bank"},
	{ID: "YESBNK", Name: "Yes Bank"},
	{ID: "INDUSB", Name: "IndusInd Bank"},
	{ID: "SCBANK", Name: "Standard Chartered"},
	{ID: "CITIBANK", Name: "Citibank"},
	{ID: "BOIIND", Name: "Bank of India"},
	{ID: "UNIONBK", Name: "Union Bank"},
	{ID: "CANBNK", Name: "Canara Bank"},
}

// templated matches a carrier header such as "VM-HDFCBK" or "JD-ICICIB-S"
// and captures the bank id in the middle.
var templated = regexp.MustCompile(`^(?:[A-Z]{2}-)?([A-Z0-9]+)(?:-[A-Z])?$`)

// Registry is an immutable set of known bank senders. It is safe for
// concurrent use.
type Registry struct {
	names map[string]string
	order []models.BankSender
}

// NewRegistry builds a registry from senders. Later entries override the
// name of earlier entries with the same id; blank ids are ignored.
func NewRegistry(senders ...models.BankSender) *Registry {
	r := &Registry{names: make(map[string]string, len(senders))}
	for _, s := range senders {
		id := Normalize(s.ID)
		if id == "" {
			continue
		}
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = id
		}
		if _, exists := r.names[id]; !exists {
			r.order = append(r.order, models.BankSender{ID: id, Name: name})
		} else {
			for i := range r.order {
				if r.order[i].ID == id {
					r.order[i].Name = name
				}
			}
		}
		r.names[id] = name
	}
	return r
}

// DefaultRegistry returns a registry holding DefaultSenders.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultSenders...)
}

// With returns a new registry holding r's senders plus extra.
func (r *Registry) With(extra ...models.BankSender) *Registry {
	all := make([]models.BankSender, 0, len(r.order)+len(extra))
	all = append(all, r.order...)
	all = append(all, extra...)
	return NewRegistry(all...)
}

// Senders returns the known senders in registration order.
func (r *Registry) Senders() []models.BankSender {
	out := make([]models.BankSender, len(r.order))
	copy(out, r.order)
	return out
}

// IsBankSender reports whether sender, after normalization, is a known bank
// id either exactly or wrapped in a carrier header.
func (r *Registry) IsBankSender(sender string) bool {
	_, ok := r.lookup(sender)
	return ok
}

// ResolveBankName returns the canonical bank name for sender, or sender
// unchanged when it is not recognized.
func (r *Registry) ResolveBankName(sender string) string {
	if name, ok := r.lookup(sender); ok {
		return name
	}
	return sender
}

func (r *Registry) lookup(sender string) (string, bool) {
	id := Normalize(sender)
	if id == "" {
		return "", false
	}
	if name, ok := r.names[id]; ok {
		return name, true
	}
	m := templated.FindStringSubmatch(id)
	if m == nil {
		return "", false
	}
	name, ok := r.names[m[1]]
	return name, ok
}

// Normalize folds compatibility characters (full-width letters), trims
// surrounding whitespace and upper-cases sender.
func Normalize(sender string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(sender)))
}

var defaultRegistry = DefaultRegistry()

// IsBankSender checks sender against the built-in registry.
func IsBankSender(sender string) bool {
	return defaultRegistry.IsBankSender(sender)
}

// ResolveBankName resolves sender against the built-in registry.
func ResolveBankName(sender string) string {
	return defaultRegistry.ResolveBankName(sender)
}
