package main

import (
	"fmt"
	"time"

	"github.com/domino14/srs_engine/internal/srs"
)

// Some experimentation code to eyeball the two schedulers side by side.
func main() {
	params := srs.DefaultParams()
	fsrs, err := srs.NewForgettingCurveScheduler(params)
	if err != nil {
		panic(err)
	}
	sm2, err := srs.NewEaseFactorScheduler(params)
	if err != nil {
		panic(err)
	}

	grades := []srs.Grade{srs.GradeGood, srs.GradeGood, srs.GradeHard,
		srs.GradeGood, srs.GradeEasy, srs.GradeAgain, srs.GradeGood}

	now := time.Now()
	fcard := srs.NewCard("curve", now)
	scard := srs.NewCard("legacy", now)
	scard.Strategy = srs.StrategySM2

	for _, g := range grades {
		result := srs.ReviewResult{Grade: g, ResponseTimeMs: 4000}

		fcard, err = fsrs.Review(fcard, result, now)
		if err != nil {
			panic(err)
		}
		scard, err = sm2.Review(scard, result, now)
		if err != nil {
			panic(err)
		}
		fmt.Printf("grade=%-5s  fsrs: S=%6.2f D=%4.2f ivl=%4dd   sm2: EF=%4.2f ivl=%4dd\n",
			g, fcard.Stability, fcard.Difficulty, fcard.Interval,
			scard.EaseFactor, scard.Interval)

		// Answer each card the moment it comes due again.
		now = fcard.NextReviewDate
	}
}
