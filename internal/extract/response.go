// Package extract asks an AI text service for the bibliographic fields of a
// citation and normalizes them into typed values.
package extract

import "encoding/json"

// Reply keys. The AI service is asked for exactly these names.
const (
	KeyTitle   = "title"
	KeyJournal = "journal"
	KeyYear    = "year"
	KeyVolume  = "volume"
	KeyPages   = "pages"
	KeyError   = "error"
)

// RequiredKeys must all be present for a reply to count as valid data.
var RequiredKeys = []string{KeyJournal, KeyYear, KeyVolume, KeyPages}

// Response is the parsed AI reply. A nil field means the key was absent;
// an empty string means it was present but blank. When Error is set the
// reply could not be used and every other field is nil.
type Response struct {
	Title   *string
	Journal *string
	Year    *string
	Volume  *string
	Pages   *string
	Error   string
}

// ErrorResponse returns the single-key error marker stored when extraction fails.
func ErrorResponse(msg string) *Response {
	return &Response{Error: msg}
}

// FromMap builds a Response from a flat key/value object. Unknown keys are ignored.
func FromMap(m map[string]string) *Response {
	if msg, ok := m[KeyError]; ok {
		return ErrorResponse(msg)
	}
	r := &Response{}
	for key, value := range m {
		if field := r.field(key); field != nil {
			v := value
			*field = &v
		}
	}
	return r
}

func (r *Response) field(key string) **string {
	switch key {
	case KeyTitle:
		return &r.Title
	case KeyJournal:
		return &r.Journal
	case KeyYear:
		return &r.Year
	case KeyVolume:
		return &r.Volume
	case KeyPages:
		return &r.Pages
	}
	return nil
}

// Get returns the value for key and whether it was present.
func (r *Response) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	if key == KeyError {
		return r.Error, r.Error != ""
	}
	field := r.field(key)
	if field == nil || *field == nil {
		return "", false
	}
	return **field, true
}

// IsError reports whether r is the error marker.
func (r *Response) IsError() bool {
	return r != nil && r.Error != ""
}

// Missing returns the required keys absent from r, in RequiredKeys order.
func (r *Response) Missing() []string {
	var missing []string
	for _, key := range RequiredKeys {
		if _, ok := r.Get(key); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// IsValid reports whether every required key is present. Presence is what
// counts: a blank value still satisfies the check.
func (r *Response) IsValid() bool {
	return r != nil && !r.IsError() && len(r.Missing()) == 0
}

// Map returns r as a flat key/value object.
func (r *Response) Map() map[string]string {
	m := make(map[string]string)
	if r == nil {
		return m
	}
	if r.IsError() {
		m[KeyError] = r.Error
		return m
	}
	for _, key := range []string{KeyTitle, KeyJournal, KeyYear, KeyVolume, KeyPages} {
		if v, ok := r.Get(key); ok {
			m[key] = v
		}
	}
	return m
}

// String renders r as compact JSON. Keys come out sorted.
func (r *Response) String() string {
	data, err := json.Marshal(r.Map())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// MarshalJSON encodes r as a flat object.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON decodes a flat object of strings.
func (r *Response) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*r = *FromMap(m)
	return nil
}
