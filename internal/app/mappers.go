package app

import (
	"strconv"
	"strings"
)

/********** alias registry for remote rate payloads **********/

// "{quote}" is replaced by the quote currency code.
var rateAliases = []string{
	"rate", "conversion_rate", "result", "value",
	"rates.{quote}", "conversion_rates.{quote}", "data.{quote}",
	"data.rate", "info.rate", "quotes.{base}{quote}",
}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// getFloatFlexible: number from several paths (float64/int/string like "3300,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// mapRate extracts base->quote from a loosely shaped payload.
func mapRate(m map[string]any, base, quote string) *float64 {
	paths := make([]string, len(rateAliases))
	r := strings.NewReplacer("{quote}", quote, "{base}", base)
	for i, a := range rateAliases {
		paths[i] = r.Replace(a)
	}
	return getFloatFlexible(m, paths...)
}
