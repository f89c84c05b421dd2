package publicapis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// entriesResponse es la respuesta de GET /entries.
// Entries es puntero para distinguir "sin key" de "lista vacía".
type entriesResponse struct {
	Count   int             `json:"count"`
	Entries *[]rawEntry     `json:"entries"`
	Error   json.RawMessage `json:"error"`
}

// rawEntry guarda cada campo crudo: una key ausente queda vacía (len 0),
// una key con null queda como "null".
type rawEntry struct {
	API         json.RawMessage `json:"API"`
	Description json.RawMessage `json:"Description"`
	Link        json.RawMessage `json:"Link"`
	Category    json.RawMessage `json:"Category"`
	Auth        json.RawMessage `json:"Auth"`
	HTTPS       json.RawMessage `json:"HTTPS"`
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// rawString decodifica un string. null o cualquier otro tipo devuelven ok=false.
func rawString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// flexBool acepta true/false, "true"/"yes"/"1" y números (0 = false).
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "true":
		*b = true
		return nil
	case s == "false" || s == "null":
		*b = false
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "true", "yes", "1":
			*b = true
		case "false", "no", "0", "":
			*b = false
		default:
			return fmt.Errorf("HTTPS: invalid boolean %q", str)
		}
		return nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("HTTPS: invalid boolean %s", s)
		}
		*b = f != 0
		return nil
	}
}
