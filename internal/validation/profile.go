// Package validation provides input validation utilities for profile and
// account fields.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"bandmate/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks basic email shape.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("password must be at least 12 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}

// ValidateName checks a display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return fmt.Errorf("name must be at least 2 characters long")
	}
	if len(trimmed) > 80 {
		return fmt.Errorf("name must not exceed 80 characters")
	}
	return nil
}

// ValidateRole checks the role against the known set.
func ValidateRole(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("role must be one of: %s", roleList())
	}
	return nil
}

func roleList() string {
	names := make([]string, len(models.Roles))
	for i, r := range models.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// ValidateBio bounds the free-text biography.
func ValidateBio(bio string) error {
	if len(bio) > 2000 {
		return fmt.Errorf("bio must not exceed 2000 characters")
	}
	return nil
}

// NormalizeList cleans a comma separated tag field such as genres or
// skills: trims entries, drops empties, lowercases, and deduplicates
// while keeping order.
func NormalizeList(raw string) string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" || seen[entry] {
			continue
		}
		seen[entry] = true
		out = append(out, entry)
	}
	return strings.Join(out, ", ")
}

// knownPlatforms maps url hosts to canonical platform names.
var knownPlatforms = map[string]string{
	"soundcloud.com":   "soundcloud",
	"open.spotify.com": "spotify",
	"spotify.com":      "spotify",
	"youtube.com":      "youtube",
	"youtu.be":         "youtube",
	"instagram.com":    "instagram",
	"tiktok.com":       "tiktok",
	"bandcamp.com":     "bandcamp",
	"x.com":            "x",
	"twitter.com":      "x",
	"facebook.com":     "facebook",
	"twitch.tv":        "twitch",
}

// ParseSocialLink validates a portfolio link and infers the platform
// from its host. Unknown hosts are kept with the bare host as the
// platform name.
func ParseSocialLink(raw string) (*models.SocialLink, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("link %q is not a valid URL", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("link %q must use http or https", raw)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	platform, ok := knownPlatforms[host]
	if !ok {
		// bandcamp uses artist subdomains
		if strings.HasSuffix(host, ".bandcamp.com") {
			platform = "bandcamp"
		} else {
			platform = host
		}
	}
	return &models.SocialLink{Platform: platform, URL: parsed.String()}, nil
}

// MaxSocialLinks caps the portfolio link list.
const MaxSocialLinks = 10

// ParseSocialLinks validates and converts a list of raw links, assigning
// display positions in submission order.
func ParseSocialLinks(raw []string) ([]models.SocialLink, error) {
	if len(raw) > MaxSocialLinks {
		return nil, fmt.Errorf("at most %d social links are allowed", MaxSocialLinks)
	}
	links := make([]models.SocialLink, 0, len(raw))
	for i, entry := range raw {
		link, err := ParseSocialLink(entry)
		if err != nil {
			return nil, err
		}
		link.Position = i
		links = append(links, *link)
	}
	return links, nil
}
