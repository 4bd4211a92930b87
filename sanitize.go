package honeybadger

import (
	"github.com/samber/lo"
)

// FilteredValue replaces the values of filtered keys
const FilteredValue = "[FILTERED]"

// SanitizeRequest redacts cgi_data, params, session and context values whose
// key matches one of the configured filter keys. The maps of info are
// replaced, never modified in place.
func SanitizeRequest(info *RequestInfo, cfg *Config) {
	if info == nil {
		return
	}
	info.CGIData = filterMap(info.CGIData, FilteredValue, cfg.FilterKey)
	info.Params = filterMap(info.Params, FilteredValue, cfg.FilterKey)
	info.Session = filterMap(info.Session, FilteredValue, cfg.FilterKey)
	info.Context = filterMap[interface{}](info.Context, FilteredValue, cfg.FilterKey)
}

func filterMap[V any](m map[string]V, filtered V, match func(key string) bool) map[string]V {
	if m == nil {
		return nil
	}
	return lo.MapValues(m, func(value V, key string) V {
		if match(key) {
			return filtered
		}
		return value
	})
}
