package main

import (
	"fmt"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/model"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/report"
	"github.com/WaleedAkram111/instagram-analytics-project/internal/theme"
)

// printSummary renders a human-readable digest of the report.
func printSummary(rep report.Report, reportPath string) {
	theme.PrintBanner()
	fmt.Printf("Analysis report for @%s\n\n", rep.UserInfo.Username)

	fmt.Println("USER PROFILE")
	fmt.Printf("  Full name: %s\n", rep.UserInfo.FullName)
	fmt.Printf("  Followers: %s  Following: %s\n\n",
		model.FormatCount(rep.UserInfo.FollowerCount), model.FormatCount(rep.UserInfo.FollowingCount))

	content := rep.ContentPreferences
	if content.Error != "" {
		fmt.Println("CONTENT:", content.Error)
	} else {
		fmt.Printf("CONTENT (%d likes analyzed)\n", content.TotalLikesAnalyzed)
		for i, p := range content.CategoryPreferences {
			if i >= 7 {
				break
			}
			fmt.Printf("  %-12s %3d likes (%.1f%%)\n", p.Key, p.Count, model.Percentage(p.Count, content.TotalLikesAnalyzed))
		}
		for _, p := range content.EngagementLevels {
			if p.Count > 0 {
				fmt.Printf("  tier %-9s %3d likes\n", p.Key, p.Count)
			}
		}
	}
	fmt.Println()

	patterns := rep.EngagementPatterns
	if patterns.Error != "" {
		fmt.Println("TIMING:", patterns.Error)
	} else {
		fmt.Println("TIMING")
		for i, p := range patterns.PeakHours {
			if i >= 5 {
				break
			}
			fmt.Printf("  %s:00 - %d likes\n", p.Key, p.Count)
		}
		for i, p := range patterns.ActiveDays {
			if i >= 3 {
				break
			}
			fmt.Printf("  %-9s %d likes\n", p.Key, p.Count)
		}
	}
	fmt.Println()

	hashtags := rep.HashtagAnalysis
	if hashtags.Error == "" && len(hashtags.TopHashtags) > 0 {
		fmt.Println("TOP HASHTAGS")
		for i, p := range hashtags.TopHashtags {
			if i >= 10 {
				break
			}
			fmt.Printf("  #%-15s %d times\n", p.Key, p.Count)
		}
		fmt.Println()
	}

	network := rep.NetworkInsights
	fmt.Printf("NETWORK (%d connections)\n", network.NetworkMetrics.TotalConnections)
	for _, p := range network.NetworkMetrics.DepthDistribution {
		fmt.Printf("  depth %s: %d edges\n", p.Key, p.Count)
	}
	for i, c := range network.InfluentialConnections {
		if i >= 5 {
			break
		}
		fmt.Printf("  @%-20s %s followers\n", c.Username, model.FormatCount(c.FollowerCount))
	}
	fmt.Println()

	if len(rep.Recommendations) > 0 {
		fmt.Println("RECOMMENDATIONS")
		for _, r := range rep.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
		fmt.Println()
	}

	fmt.Println("Report saved:", reportPath)
}
