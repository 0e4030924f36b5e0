package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate interpreta YYYY-MM-DD como meia-noite UTC; string vazia retorna nil
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.ParseInLocation(DateLayout, dateStr, time.UTC)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// ParseEndDate trata a data final como inclusiva, devolvendo o início do dia seguinte
func ParseEndDate(dateStr string) (*time.Time, error) {
	date, err := ParseDate(dateStr)
	if err != nil || date == nil {
		return date, err
	}

	next := date.AddDate(0, 0, 1)
	return &next, nil
}
