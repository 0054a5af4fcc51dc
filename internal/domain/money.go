package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Цены передаются по проводу десятичными строками ("2500.00"), чтобы избежать
// накопления ошибок плавающей точки. Для арифметики строки переводятся в
// минимальные денежные единицы (копейки).

// ParseDecimal переводит десятичную строку в минимальные единицы.
// Допускается не более двух знаков после точки.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty decimal string")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("too many fraction digits in %q", s)
	}
	// Дополняем до копеек: "5" -> "50", "" -> "00".
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse decimal %q: %w", s, err)
	}

	minor := w*100 + f
	if negative {
		minor = -minor
	}
	return minor, nil
}

// FormatMinor форматирует минимальные единицы обратно в десятичную строку.
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
