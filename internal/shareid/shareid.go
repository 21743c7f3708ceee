package shareid

import "crypto/rand"

// Alphabet holds the characters share ids are drawn from. Visually confusable
// characters (0, O, I, l, 1) are excluded so ids survive being read aloud or
// typed from an SMS.
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// Length is the number of characters in a share id.
const Length = 8

var readRandomFn = rand.Read

// Generate returns a random share id. Ids are not guaranteed unique; callers
// retry against existing ids.
func Generate() string {
	buf := make([]byte, Length)
	_, _ = readRandomFn(buf)

	id := make([]byte, Length)
	for i, b := range buf {
		id[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(id)
}
