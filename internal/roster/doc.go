// Package roster holds the team, member and profile records and derives a
// team's ordered member list from the backend's parallel delimited fields.
//
// The backend ships member ids, names and emails as separate delimited
// strings that are correlated by position. Derive validates that the fields
// agree in length before zipping them, so a malformed team surfaces as an
// error instead of a silently shifted or truncated roster.
package roster
