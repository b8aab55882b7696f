// Package codec translates between domain records and spreadsheet rows.
//
// Each sheet has a canonical header set plus legacy synonyms; lookups are
// tolerant of header order, casing, and spacing. Decoding never fails a
// whole row for a bad cell: every field falls back to a zero value or, for
// dates, the current time. A row without an ID is dropped entirely.
//
// Monetary cells hold decimal major units on the wire and int64 minor
// units (cents) in memory; the conversion goes through shopspring/decimal
// so round-tripping is exact.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Sheet names. ProductCategories is local-only and has no sheet.
const (
	SheetTransactions = "Transactions"
	SheetAccounts     = "Accounts"
	SheetCategories   = "Categories"
	SheetSales        = "Sales"
	SheetClients      = "Clients"
	SheetProducts     = "Products"
	SheetDebtors      = "Debtors"
	SheetDebts        = "Debts"
	SheetBudgets      = "Budgets"
	SheetGoals        = "Goals"
	SheetInvestments  = "Investments"
	SheetBusinesses   = "Businesses"
)

// ImportOrder is the sheet order a full import processes. Businesses come
// first so every other record can resolve its owner.
var ImportOrder = []string{
	SheetBusinesses,
	SheetTransactions,
	SheetAccounts,
	SheetCategories,
	SheetBudgets,
	SheetInvestments,
	SheetDebts,
	SheetGoals,
	SheetSales,
	SheetClients,
	SheetProducts,
	SheetDebtors,
}

// HeaderStrings converts a raw header row into strings for the decoders.
func HeaderStrings(row []any) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = cellString(c)
	}
	return out
}

// row resolves cells by canonical column name against whatever headers the
// sheet actually has.
type row struct {
	headers []string
	cells   []any
}

func newRow(headers []string, cells []any) row {
	return row{headers: headers, cells: cells}
}

// normalizeHeader strips spacing, underscores, and case so "Business ID",
// "business_id", and "BusinessID" all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, " ", "")
	h = strings.ReplaceAll(h, "_", "")
	return h
}

// cell returns the raw cell under the first header matching any of the
// given names.
func (r row) cell(names ...string) (any, bool) {
	for _, name := range names {
		want := normalizeHeader(name)
		for i, h := range r.headers {
			if normalizeHeader(h) == want && i < len(r.cells) {
				return r.cells[i], true
			}
		}
	}
	return nil, false
}

// cellString renders any cell as text. JSON numbers keep their shortest
// form so "3" stays "3", not "3.000000".
func cellString(c any) string {
	switch v := c.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

func (r row) str(def string, names ...string) string {
	c, ok := r.cell(names...)
	if !ok || c == nil {
		return def
	}
	s := strings.TrimSpace(cellString(c))
	if s == "" {
		return def
	}
	return s
}

func (r row) money(names ...string) int64 {
	c, ok := r.cell(names...)
	if !ok {
		return 0
	}
	return ToCents(c)
}

func (r row) integer(def int, names ...string) int {
	c, ok := r.cell(names...)
	if !ok || c == nil {
		return def
	}
	d, ok := toDecimal(c)
	if !ok {
		return def
	}
	return int(d.Round(0).IntPart())
}

func (r row) float(def float64, names ...string) float64 {
	c, ok := r.cell(names...)
	if !ok || c == nil {
		return def
	}
	d, ok := toDecimal(c)
	if !ok {
		return def
	}
	f, _ := d.Float64()
	return f
}

func (r row) boolean(def bool, names ...string) bool {
	c, ok := r.cell(names...)
	if !ok || c == nil {
		return def
	}
	switch v := c.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "sim", "ativo":
			return true
		case "false", "0", "no", "nao", "não", "inativo":
			return false
		}
	case float64:
		return v != 0
	}
	return def
}

// date parses a date cell, accepting the formats the sheets have carried
// over time. Unparseable or empty cells yield the fallback.
func (r row) date(fallback time.Time, names ...string) time.Time {
	c, ok := r.cell(names...)
	if !ok {
		return fallback
	}
	return parseDate(c, fallback)
}

// datePtr is like date but keeps absence as nil.
func (r row) datePtr(names ...string) *time.Time {
	c, ok := r.cell(names...)
	if !ok || c == nil {
		return nil
	}
	if s, isStr := c.(string); isStr && strings.TrimSpace(s) == "" {
		return nil
	}
	t := parseDate(c, time.Time{})
	if t.IsZero() {
		return nil
	}
	return &t
}

// jsonCell decodes a nested-JSON cell into dst. Bad JSON leaves dst alone.
func (r row) jsonCell(dst any, names ...string) bool {
	s := r.str("", names...)
	if s == "" {
		return false
	}
	return json.Unmarshal([]byte(s), dst) == nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006 15:04:05",
}

func parseDate(c any, fallback time.Time) time.Time {
	switch v := c.(type) {
	case time.Time:
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return fallback
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return fallback
}

// encodeDate renders a timestamp for a sheet cell. Zero times become empty
// cells.
func encodeDate(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func encodeDatePtr(t *time.Time) any {
	if t == nil {
		return ""
	}
	return encodeDate(*t)
}

// encodeJSON renders a nested structure as a JSON string cell. Empty
// slices become empty cells so untouched sheets stay clean.
func encodeJSON(v any) any {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" || string(data) == "[]" {
		return ""
	}
	return string(data)
}
