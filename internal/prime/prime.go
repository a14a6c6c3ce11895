// Package prime implements the primality check exposed by the API and CLI.
package prime

// MaxServed is the largest n the HTTP API checks. Trial division up to it
// needs at most a million divisions.
const MaxServed int64 = 1_000_000_000_000

// IsPrime reports whether n is a prime number using trial division
func IsPrime(n int64) bool {
	// Prime numbers must be greater than 1
	if n < 2 {
		return false
	}

	// d <= n/d is d*d <= n without overflow
	for d := int64(2); d <= n/d; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
