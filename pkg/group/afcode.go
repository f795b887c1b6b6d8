package group

// afFillerCode is transmitted in place of a frequency when the AF
// list has no entry for the position. 205 per IEC 62106/EN 50067;
// 224-249 is a disjoint "number of AFs follows" announcement range,
// not a filler code.
const afFillerCode = 0xCD

const (
	afCodeMin = 87.6
	afCodeMax = 107.9
)

// afCode encodes one Alternative Frequency, in MHz, as a single byte
// per RDS AF Method A: code = round((freq - 87.5) * 10), valid over
// 1..204 for the 87.6..107.9 MHz band this station accepts.
func afCode(mhz float64) byte {
	if mhz < afCodeMin || mhz > afCodeMax {
		return afFillerCode
	}
	code := int((mhz-87.5)*10 + 0.5)
	if code < 1 || code > 204 {
		return afFillerCode
	}
	return byte(code)
}

// afPair returns the two AF codes block C of a 0A group carries for
// the given cursor position, wrapping modulo the list length. An
// empty list yields two filler codes.
func afPair(list []float64, idx int) [2]byte {
	if len(list) == 0 {
		return [2]byte{afFillerCode, afFillerCode}
	}
	first := afCode(list[idx%len(list)])
	second := afCode(list[(idx+1)%len(list)])
	return [2]byte{first, second}
}
