package logic

import (
	"strconv"
	"strings"

	"github.com/openmohaa/tennis-pred/internal/models"
)

// Perspectives holds the two feature vectors built for one match. The model
// is not assumed to be symmetric under player order, so both orderings are
// evaluated.
type Perspectives struct {
	AFirst []float64
	BFirst []float64

	// Canonical table keys the vectors were built from
	Tournament string
	Round      string
	Players    [2]string
}

type playerFeatures struct {
	name   string
	static []float64
	age    int
	rank   int
}

func (p playerFeatures) appendTo(v []float64) []float64 {
	v = append(v, p.static...)
	return append(v, float64(p.age), float64(p.rank))
}

// BuildVectors validates the request and lays out both vectors as
// [tournament..., round rank, first player..., first age, first rank,
// second player..., second age, second rank].
func BuildVectors(tables LookupTables, req *models.MatchRequest) (Perspectives, error) {
	tournamentName := strings.TrimSpace(req.Tournament)
	tournament, ok := tables.Tournament(tournamentName)
	if !ok {
		return Perspectives{}, &InputError{Field: "tournament", Reason: "unknown tournament " + strconv.Quote(req.Tournament)}
	}

	round := strings.TrimSpace(req.Round)
	roundRank, ok := RoundRank(round)
	if !ok {
		return Perspectives{}, &InputError{Field: "round", Reason: "unknown round code " + strconv.Quote(req.Round)}
	}

	a, err := resolvePlayer(tables, "player A", req.PlayerA)
	if err != nil {
		return Perspectives{}, err
	}
	b, err := resolvePlayer(tables, "player B", req.PlayerB)
	if err != nil {
		return Perspectives{}, err
	}
	if a.name == b.name {
		return Perspectives{}, &InputError{Field: "player B", Reason: "must differ from player A"}
	}

	head := make([]float64, 0, len(tournament)+1)
	head = append(append(head, tournament...), float64(roundRank))

	aFirst := make([]float64, 0, len(head)+2*(len(a.static)+2))
	aFirst = append(aFirst, head...)
	aFirst = b.appendTo(a.appendTo(aFirst))

	bFirst := make([]float64, 0, cap(aFirst))
	bFirst = append(bFirst, head...)
	bFirst = a.appendTo(b.appendTo(bFirst))

	return Perspectives{
		AFirst:     aFirst,
		BFirst:     bFirst,
		Tournament: tournamentName,
		Round:      round,
		Players:    [2]string{a.name, b.name},
	}, nil
}

func resolvePlayer(tables LookupTables, label string, entry models.PlayerEntry) (playerFeatures, error) {
	name := strings.TrimSpace(entry.Name)
	static, ok := tables.Player(name)
	if !ok {
		return playerFeatures{}, &InputError{Field: label + " name", Reason: "unknown player " + strconv.Quote(entry.Name)}
	}
	age, err := parsePositiveInt(label+" age", entry.Age.String())
	if err != nil {
		return playerFeatures{}, err
	}
	rank, err := parsePositiveInt(label+" rank", entry.Rank.String())
	if err != nil {
		return playerFeatures{}, err
	}
	return playerFeatures{name: name, static: static, age: age, rank: rank}, nil
}

func parsePositiveInt(field, s string) (int, error) {
	if s == "" {
		return 0, &InputError{Field: field, Reason: "is required"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InputError{Field: field, Reason: strconv.Quote(s) + " is not a whole number"}
	}
	if n <= 0 {
		return 0, &InputError{Field: field, Reason: "must be greater than zero"}
	}
	return n, nil
}
