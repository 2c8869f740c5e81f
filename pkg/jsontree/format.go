package jsontree

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber formats f the way JavaScript's Number.prototype.toString does:
// the shortest digits that round-trip, plain decimal notation for
// 1e-7 < |f| < 1e21, exponent notation ("1e+21", "1.5e-7") outside it.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f < 0:
		return "-" + FormatNumber(-f)
	}

	// "d.ddde±XX" gives the shortest round-trip digits and the exponent.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expStr, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expStr)

	k := len(digits)
	n := exp + 1 // position of the decimal point relative to the digits

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	var b strings.Builder
	b.WriteByte(digits[0])
	if k > 1 {
		b.WriteByte('.')
		b.WriteString(digits[1:])
	}
	b.WriteByte('e')
	if n-1 >= 0 {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(n - 1))
	return b.String()
}
