package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-tableview/pkg/types"
)

// Density controls row spacing.
type Density string

const (
	DensityCompact     Density = "compact"
	DensityNormal      Density = "normal"
	DensityComfortable Density = "comfortable"
)

// Valid reports whether d is a known density.
func (d Density) Valid() bool {
	switch d {
	case DensityCompact, DensityNormal, DensityComfortable:
		return true
	}
	return false
}

// Settings is the effective view configuration of a table. An empty SortBy
// means no sort; a nil VisibleColumns means every schema column is shown.
type Settings struct {
	SortBy            string          `json:"sortBy"`
	SortOrder         types.SortOrder `json:"sortOrder"`
	ShowSystemColumns bool            `json:"showSystemColumns"`
	Density           Density         `json:"density"`
	VisibleColumns    []string        `json:"visibleColumns"`
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	if s.VisibleColumns != nil {
		out.VisibleColumns = slices.Clone(s.VisibleColumns)
	}
	return out
}

// FallbackSettings is used when a table carries no usable default view.
func FallbackSettings() Settings {
	return Settings{
		SortBy:            types.SystemColumnUpdatedAt,
		SortOrder:         types.SortDesc,
		ShowSystemColumns: false,
		Density:           DensityNormal,
	}
}

// Preferences is the per-user view override persisted for a table.
type Preferences struct {
	UseDefault     bool      `json:"useDefault"`
	CustomSettings *Settings `json:"customSettings,omitempty"`
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	out := Preferences{UseDefault: p.UseDefault}
	if p.CustomSettings != nil {
		custom := p.CustomSettings.Clone()
		out.CustomSettings = &custom
	}
	return out
}

// DefaultViewKey is the table settings entry holding the server-side default
// view.
const DefaultViewKey = "defaultView"

var errMalformedSettings = errors.New("views: malformed view settings")

// parseLayer converts a loosely typed settings value into a layer payload
// holding only well formed fields. Values may be a map or a JSON object
// string. Invalid fields are dropped and reported through dropped.
func parseLayer(raw any) (payload map[string]any, dropped []string, err error) {
	var obj map[string]any
	switch v := raw.(type) {
	case map[string]any:
		obj = v
	case string:
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", errMalformedSettings, err)
		}
	case []byte:
		if err := json.Unmarshal(v, &obj); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", errMalformedSettings, err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: unexpected %T", errMalformedSettings, raw)
	}
	if obj == nil {
		return nil, nil, errMalformedSettings
	}

	payload = make(map[string]any, len(obj))
	for key, value := range obj {
		switch key {
		case "sortBy":
			switch sortBy := value.(type) {
			case nil:
				payload[key] = ""
			case string:
				payload[key] = sortBy
			default:
				dropped = append(dropped, key)
			}
		case "sortOrder":
			order, _ := value.(string)
			if order == string(types.SortAsc) || order == string(types.SortDesc) {
				payload[key] = order
			} else {
				dropped = append(dropped, key)
			}
		case "showSystemColumns":
			if flag, ok := value.(bool); ok {
				payload[key] = flag
			} else {
				dropped = append(dropped, key)
			}
		case "density":
			density, _ := value.(string)
			if Density(density).Valid() {
				payload[key] = density
			} else {
				dropped = append(dropped, key)
			}
		case "visibleColumns":
			if value == nil {
				continue
			}
			if cols, ok := stringList(value); ok {
				payload[key] = cols
			} else {
				dropped = append(dropped, key)
			}
		}
	}
	slices.Sort(dropped)
	return payload, dropped, nil
}

func stringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case []string:
		return slices.Clone(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
