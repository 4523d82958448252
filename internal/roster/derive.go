package roster

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSeparators lists the runes that delimit entries in the raw member
// fields. The backend has shipped both comma and semicolon lists.
const DefaultSeparators = ",;"

// Derive builds the ordered member list of team using DefaultSeparators.
func Derive(team Team) ([]Member, error) {
	return DeriveWith(team, DefaultSeparators)
}

// DeriveWith zips the team's member ids, names and (optional) emails
// positionally. Each element is trimmed; empty elements keep their position
// so the correlation is never shifted. Mismatched lengths return a
// *MalformedRosterError and no members.
func DeriveWith(team Team, separators string) ([]Member, error) {
	if separators == "" {
		separators = DefaultSeparators
	}

	ids := splitField(team.MemberIDs, separators)
	names := splitField(team.MemberNames, separators)
	if len(ids) != len(names) {
		return nil, &MalformedRosterError{TeamID: team.ID, Field: "names", IDs: len(ids), Other: len(names)}
	}

	emails := splitField(team.MemberEmails, separators)
	if len(emails) > 0 && len(emails) != len(ids) {
		return nil, &MalformedRosterError{TeamID: team.ID, Field: "emails", IDs: len(ids), Other: len(emails)}
	}

	members := make([]Member, len(ids))
	for i := range ids {
		members[i] = Member{
			ID:          ids[i],
			DisplayName: names[i],
			Initials:    Initials(names[i]),
		}
		if len(emails) > 0 {
			members[i].Email = emails[i]
		}
	}
	return members, nil
}

// Initials returns the upper-cased first rune of the first and last words of
// name. A single word yields one rune and an empty name yields "".
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}

	first, _ := utf8.DecodeRuneInString(words[0])
	initials := string(first)
	if len(words) > 1 {
		last, _ := utf8.DecodeRuneInString(words[len(words)-1])
		initials += string(last)
	}
	return cases.Upper(language.Und).String(initials)
}

// splitField splits raw on any rune in separators and trims each part.
// A blank field has no entries.
func splitField(raw, separators string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var parts []string
	start := 0
	for i, r := range raw {
		if strings.ContainsRune(separators, r) {
			parts = append(parts, strings.TrimSpace(raw[start:i]))
			start = i + utf8.RuneLen(r)
		}
	}
	return append(parts, strings.TrimSpace(raw[start:]))
}
