// Package validation scores and normalizes email addresses. It is pure:
// no network lookups, no persistence.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Level classifies a validation result for presentation.
type Level string

const (
	LevelValid   Level = "valid"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Result is the outcome of validating one address.
type Result struct {
	IsValid     bool     `json:"is_valid"`
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Level       Level    `json:"level"`
}

var disposableDomains = map[string]bool{
	"10minutemail.com": true, "guerrillamail.com": true, "mailinator.com": true,
	"tempmail.org": true, "throwaway.email": true, "temp-mail.org": true,
	"getnada.com": true, "maildrop.cc": true, "sharklasers.com": true,
	"yopmail.com": true, "mohmal.com": true, "mytrashmail.com": true,
}

var domainTypos = map[string]string{
	"gmial.com":   "gmail.com",
	"gmai.com":    "gmail.com",
	"gmail.co":    "gmail.com",
	"gmeil.com":   "gmail.com",
	"hotmial.com": "hotmail.com",
	"hotmai.com":  "hotmail.com",
	"hotmil.com":  "hotmail.com",
	"yahooo.com":  "yahoo.com",
	"yaho.com":    "yahoo.com",
	"outloo.com":  "outlook.com",
	"outlok.com":  "outlook.com",
	"iclou.com":   "icloud.com",
	"iclould.com": "icloud.com",
}

var popularDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true,
	"outlook.com": true, "icloud.com": true, "protonmail.com": true,
}

var plusAddressingDomains = map[string]bool{
	"gmail.com": true, "googlemail.com": true, "outlook.com": true, "hotmail.com": true,
}

var (
	emailRe      = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	localRe      = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+$`)
	domainRe     = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)
	tldRe        = regexp.MustCompile(`^[a-zA-Z]+$`)
	quickEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonAlnumRe   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ValidateEmail scores raw on a 0-100 scale. A structurally valid address
// starts at 50; the local part, the domain, disposable-domain membership
// and known typos adjust from there. Any recorded issue makes the result
// invalid regardless of score.
func ValidateEmail(raw string) Result {
	res := Result{Level: LevelError, Issues: []string{}, Suggestions: []string{}}

	if raw == "" {
		res.Issues = append(res.Issues, "Email is required")
		return res
	}

	email := strings.ToLower(strings.TrimSpace(raw))

	if len(email) > 254 {
		res.Issues = append(res.Issues, "Email is too long (max 254 characters)")
		return res
	}
	if len(email) < 5 {
		res.Issues = append(res.Issues, "Email is too short")
		return res
	}
	if !emailRe.MatchString(email) {
		res.Issues = append(res.Issues, "Invalid email format")
		return res
	}

	score := 50

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]

	localScore, localIssues, localSuggestions := scoreLocalPart(local)
	score += localScore
	res.Issues = append(res.Issues, localIssues...)
	res.Suggestions = append(res.Suggestions, localSuggestions...)

	domainScore, domainIssues, domainSuggestions := scoreDomainPart(domain)
	score += domainScore
	res.Issues = append(res.Issues, domainIssues...)
	res.Suggestions = append(res.Suggestions, domainSuggestions...)

	if disposableDomains[domain] {
		res.Issues = append(res.Issues, "Temporary/disposable email addresses are not allowed")
		score -= 30
	}

	if corrected, ok := domainTypos[domain]; ok {
		res.Suggestions = append(res.Suggestions, fmt.Sprintf("Did you mean %s@%s?", local, corrected))
		score -= 20
	}

	res.Score = clamp(score, 0, 100)

	switch {
	case res.Score >= 80 && len(res.Issues) == 0:
		res.IsValid = true
		res.Level = LevelValid
	case res.Score >= 60 && len(res.Issues) == 0:
		res.IsValid = true
		res.Level = LevelWarning
	}
	return res
}

func scoreLocalPart(local string) (int, []string, []string) {
	var issues, suggestions []string

	switch {
	case len(local) > 64:
		return 0, []string{"Email username is too long"}, nil
	case len(local) < 1:
		return 0, []string{"Email username is required"}, nil
	case strings.Contains(local, ".."):
		return 0, []string{"Email cannot contain consecutive dots"}, nil
	case strings.HasPrefix(local, ".") || strings.HasSuffix(local, "."):
		return 0, []string{"Email cannot start or end with a dot"}, nil
	case !localRe.MatchString(local):
		return 0, []string{"Email contains invalid characters"}, nil
	}

	score := 20
	if len(local) >= 3 && len(local) <= 20 {
		score += 10
	}

	specials := len(nonAlnumRe.FindAllString(local, -1))
	if float64(specials) > float64(len(local))*0.3 {
		score -= 5
		suggestions = append(suggestions, "Consider using fewer special characters")
	}
	return score, issues, suggestions
}

func scoreDomainPart(domain string) (int, []string, []string) {
	var issues, suggestions []string

	switch {
	case len(domain) > 253:
		return 0, []string{"Domain name is too long"}, nil
	case len(domain) < 4:
		return 0, []string{"Domain name is too short"}, nil
	case !domainRe.MatchString(domain):
		return 0, []string{"Invalid domain format"}, nil
	case !strings.Contains(domain, "."):
		return 0, []string{"Domain must include a top-level domain (e.g., .com)"}, nil
	}

	parts := strings.Split(domain, ".")
	tld := parts[len(parts)-1]
	if len(tld) < 2 {
		return 0, []string{"Top-level domain is too short"}, nil
	}
	if !tldRe.MatchString(tld) {
		return 0, []string{"Top-level domain should contain only letters"}, nil
	}

	score := 20
	if popularDomains[domain] {
		score += 10
	}
	if len(parts) >= 3 {
		score += 5
	}
	if strings.Contains(domain, "--") {
		score -= 5
		suggestions = append(suggestions, "Domain contains unusual characters")
	}
	return score, issues, suggestions
}

// QuickValidate is the cheap shape check used for live feedback.
func QuickValidate(email string) bool {
	if email == "" {
		return false
	}
	return quickEmailRe.MatchString(strings.TrimSpace(email))
}

// ValidationMessage condenses a result into one user-facing line.
func ValidationMessage(res Result) string {
	if res.IsValid && res.Level == LevelValid {
		return "Email looks great!"
	}
	if res.IsValid && res.Level == LevelWarning {
		if len(res.Suggestions) > 0 {
			return res.Suggestions[0]
		}
		return "Email is valid but could be improved"
	}
	if len(res.Issues) > 0 {
		return res.Issues[0]
	}
	return "Please enter a valid email address"
}

// SupportsPlusAddressing reports whether the address's provider honors
// user+tag@domain aliases.
func SupportsPlusAddressing(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return plusAddressingDomains[strings.ToLower(email[at+1:])]
}

// NormalizeEmail lowercases the address and, for Gmail-family domains,
// strips dots and any +tag suffix from the local part.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]

	if domain == "gmail.com" || domain == "googlemail.com" {
		local = strings.ReplaceAll(local, ".", "")
		if plus := strings.Index(local, "+"); plus >= 0 {
			local = local[:plus]
		}
		return local + "@gmail.com"
	}
	return local + "@" + domain
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
