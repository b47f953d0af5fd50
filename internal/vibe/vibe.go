// Package vibe maps genre tags to a named mood category.
//
// Classification is a priority chain: an ordered table of keyword rules is
// evaluated against the joined genre string and the first match wins. Order is
// deliberate — Romantic must be tested before the generic Hype and Feel-Good
// rules so that romantic pop is not swallowed by the pop fallback.
//
// Classify is a pure function: no I/O, no hidden state, deterministic for a
// given input.
package vibe

import (
	"regexp"
	"strings"

	"github.com/desertthunder/vibelist/internal/models"
)

// FallbackName is returned when no genre tags are available.
const FallbackName = "Similar Tracks"

// rule pairs a vibe name with the keywords that select it. Keywords match as
// whole words (case-insensitive) within the joined genre string. An optional
// extra predicate can match on title/artist when the keywords alone miss.
type rule struct {
	name     string
	keywords *regexp.Regexp
	extra    func(genreStr, title, artist string) bool
}

var (
	romanticTitle = regexp.MustCompile(`(love|heart|marry|wedding|forever|always|you|kiss|hold|beautiful|perfect|amazing|wonderful)`)

	romanticArtists = regexp.MustCompile(`(ed sheeran|john legend|bruno mars|adele|sam smith|lewis capaldi|shawn mendes|charlie puth)`)
)

// rules is the ordered priority chain. First match wins.
var rules = []rule{
	{
		name:     "Sad / Melancholic",
		keywords: regexp.MustCompile(`\b(sad|melanchol\w*|blues|tearjerker|depressing|heartbreak|emotional|piano ballad)\b`),
	},
	{
		name:     "Romantic",
		keywords: regexp.MustCompile(`\b(love|romantic|ballad|r&b|soul|slow jam|sensual|intimate|wedding)\b`),
		// Plain "pop" reads as Romantic when the title or artist leans that way.
		extra: func(genreStr, title, artist string) bool {
			return strings.Contains(genreStr, "pop") &&
				(romanticTitle.MatchString(title) || romanticArtists.MatchString(artist))
		},
	},
	{
		name:     "Hype / Energy",
		keywords: regexp.MustCompile(`\b(edm|electronic|dance|house|techno|dubstep|trap|hip hop|rap|hype|party|workout|gym)\b`),
	},
	{
		name:     "Aesthetic",
		keywords: regexp.MustCompile(`\b(dream pop|shoegaze|chillwave|vaporwave|indie folk|soft|gentle|serene)\b`),
	},
	{
		name:     "Dark / Villain Arc",
		keywords: regexp.MustCompile(`\b(dark|goth|industrial|metal|darkwave|witch house|phonk|villain|aggressive)\b`),
	},
	{
		name:     "Nostalgic",
		keywords: regexp.MustCompile(`\b(nostalgia|retro|80s|90s|oldies|classic|throwback|vintage)\b`),
	},
	{
		name:     "Angsty",
		keywords: regexp.MustCompile(`\b(emo|punk|grunge|alt rock|alternative|screamo|post-hardcore|angst)\b`),
	},
	{
		name:     "Funny / Crack Edit",
		keywords: regexp.MustCompile(`\b(comedy|meme|parody|novelty|funny|joke|silly)\b`),
	},
	{
		name:     "Cinematic",
		keywords: regexp.MustCompile(`\b(cinematic|soundtrack|orchestral|epic|dramatic|film score|trailer)\b`),
	},
	{
		name:     "Dreamcore / Surreal",
		keywords: regexp.MustCompile(`\b(ambient|drone|experimental|psychedelic|surreal|ethereal|dreamy|trippy)\b`),
	},
	{
		name:     "Feel-Good",
		keywords: regexp.MustCompile(`\b(pop|funk|disco|upbeat|happy|cheerful|feel.?good)\b`),
	},
	{
		name:     "Chill",
		keywords: regexp.MustCompile(`\b(acoustic|folk|jazz|lofi|lo.?fi|chill|calm|peaceful|relaxing)\b`),
	},
}

// Classify derives a [models.Vibe] from genre tags, optionally using title and
// artist text for the Romantic disambiguation case.
//
// Empty genres yield the FallbackName vibe with no target genres. When no rule
// matches, the first genre tag becomes the vibe name so downstream prompts
// still carry something descriptive. TargetGenres always passes the input
// genres through untouched.
func Classify(genres []string, title, artist string) models.Vibe {
	if len(genres) == 0 {
		return models.Vibe{Name: FallbackName, TargetGenres: []string{}}
	}

	genreStr := strings.ToLower(strings.Join(genres, " "))
	titleLower := strings.ToLower(title)
	artistLower := strings.ToLower(artist)

	for _, r := range rules {
		if r.keywords.MatchString(genreStr) {
			return models.Vibe{Name: r.name, TargetGenres: genres}
		}
		if r.extra != nil && r.extra(genreStr, titleLower, artistLower) {
			return models.Vibe{Name: r.name, TargetGenres: genres}
		}
	}

	return models.Vibe{Name: genres[0], TargetGenres: genres}
}
