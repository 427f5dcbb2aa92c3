package catalog

import (
	"fmt"
	"strings"
)

type StarBucket struct {
	Stars      int     `json:"stars"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ReviewSummary struct {
	Distribution []StarBucket `json:"distribution"`
	WithPhotos   int          `json:"withPhotos"`
	Total        int          `json:"total"`
}

// SummarizeReviews counts reviews per star rating, from five stars down to one.
func SummarizeReviews(reviews []Review) ReviewSummary {
	summary := ReviewSummary{
		Distribution: make([]StarBucket, 0, 5),
		Total:        len(reviews),
	}

	counts := map[int]int{}
	for _, review := range reviews {
		counts[review.Rating]++
		if len(review.Images) > 0 {
			summary.WithPhotos++
		}
	}

	for stars := 5; stars >= 1; stars-- {
		bucket := StarBucket{Stars: stars, Count: counts[stars]}
		if len(reviews) > 0 {
			bucket.Percentage = float64(bucket.Count) / float64(len(reviews)) * 100
		}
		summary.Distribution = append(summary.Distribution, bucket)
	}
	return summary
}

type SellerSummary struct {
	ReputationLabel string `json:"reputationLabel"`
	Sales           string `json:"sales"`
	PowerSeller     bool   `json:"powerSeller"`
}

var reputationLabels = map[ReputationLevel]string{
	ReputationGreen:      "Platinum",
	ReputationLightGreen: "Gold",
	ReputationYellow:     "Silver",
	ReputationOrange:     "Bronze",
	ReputationRed:        "Novice",
}

// ReputationLabel names a reputation level. Unknown levels are returned as is.
func ReputationLabel(level ReputationLevel) string {
	if label, ok := reputationLabels[level]; ok {
		return label
	}
	return string(level)
}

// FormatSales abbreviates sales counts from one thousand upwards, e.g. "+12k".
func FormatSales(total int) string {
	if total >= 1000 {
		return fmt.Sprintf("+%dk", total/1000)
	}
	return fmt.Sprintf("%d", total)
}

func SummarizeSeller(seller Seller) SellerSummary {
	return SellerSummary{
		ReputationLabel: ReputationLabel(ReputationLevel(strings.TrimSpace(string(seller.Reputation.Level)))),
		Sales:           FormatSales(seller.TotalSales),
		PowerSeller:     seller.Reputation.PowerSellerStatus,
	}
}
