package logic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmohaa/tennis-pred/internal/models"
)

func TestBuildVectors_FieldOrder(t *testing.T) {
	v, err := BuildVectors(testTables(), federerVsNadal())
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0, 1, 9, 0, 1, 38, 5, 1, 0, 35, 2}, v.AFirst)
	assert.Equal(t, []float64{1, 0, 1, 9, 1, 0, 35, 2, 0, 1, 38, 5}, v.BFirst)
	assert.Len(t, v.AFirst, testTables().VectorWidth())
}

func TestBuildVectors_TrimsInput(t *testing.T) {
	req := federerVsNadal()
	req.Tournament = " Wimbledon "
	req.PlayerA.Age = " 38 "

	req.Round = "F\t"
	req.PlayerB.Name = "Rafael Nadal  "

	v, err := BuildVectors(testTables(), req)
	require.NoError(t, err)
	assert.Equal(t, float64(38), v.AFirst[6])
	assert.Equal(t, "Wimbledon", v.Tournament)
	assert.Equal(t, "F", v.Round)
	assert.Equal(t, [2]string{"Roger Federer", "Rafael Nadal"}, v.Players)
}

func TestBuildVectors_InputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.MatchRequest)
		field  string
	}{
		{"unknown tournament", func(r *models.MatchRequest) { r.Tournament = "Queens" }, "tournament"},
		{"unknown round", func(r *models.MatchRequest) { r.Round = "R256" }, "round"},
		{"lowercase round", func(r *models.MatchRequest) { r.Round = "f" }, "round"},
		{"unknown player A", func(r *models.MatchRequest) { r.PlayerA.Name = "Andy Murray" }, "player A name"},
		{"unknown player B", func(r *models.MatchRequest) { r.PlayerB.Name = "" }, "player B name"},
		{"non numeric age", func(r *models.MatchRequest) { r.PlayerA.Age = "thirty" }, "player A age"},
		{"fractional age", func(r *models.MatchRequest) { r.PlayerA.Age = "38.5" }, "player A age"},
		{"missing rank", func(r *models.MatchRequest) { r.PlayerB.Rank = "" }, "player B rank"},
		{"zero rank", func(r *models.MatchRequest) { r.PlayerB.Rank = "0" }, "player B rank"},
		{"negative age", func(r *models.MatchRequest) { r.PlayerB.Age = "-1" }, "player B age"},
		{"same player twice", func(r *models.MatchRequest) { r.PlayerB.Name = "Roger Federer" }, "player B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := federerVsNadal()
			tt.mutate(req)

			_, err := BuildVectors(testTables(), req)

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr), "expected InputError, got %v", err)
			assert.Equal(t, tt.field, inputErr.Field)
			assert.NotEmpty(t, inputErr.Message())
		})
	}
}

func TestRoundRanks_Stable(t *testing.T) {
	want := map[string]int{
		"RR": 1, "BR": 2, "R128": 3, "R64": 4, "R32": 5,
		"R16": 6, "QF": 7, "SF": 8, "F": 9,
	}
	for code, rank := range want {
		got, ok := RoundRank(code)
		assert.True(t, ok, code)
		assert.Equal(t, rank, got, code)
	}

	order := Rounds()
	require.Len(t, order, len(want))
	for i, r := range order {
		assert.Equal(t, i+1, r.Rank)
	}

	// Callers cannot change the shared table
	order[0].Rank = 42
	rank, _ := RoundRank("RR")
	assert.Equal(t, 1, rank)
	assert.Equal(t, 1, Rounds()[0].Rank)
}
