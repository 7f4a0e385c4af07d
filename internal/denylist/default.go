package denylist

// defaultSubstrings are the always-forbidden content markers. Matching is
// case-insensitive containment.
var defaultSubstrings = []string{
	"password",
	"api_key",
	"secret key",
	"ssn",
	"credit card",
}

// defaultRegexes are the secrets-shaped detectors. Matches are reported
// as "re:<pattern>".
var defaultRegexes = []string{
	`\b\d{3}-\d{2}-\d{4}\b`, // US SSN
	`sk-[A-Za-z0-9]{20,}`,   // sk- style API keys
	`(?:\d[ -]*?){13,16}`,   // credit-card digit runs
}
