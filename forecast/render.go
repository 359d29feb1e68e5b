package forecast

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wellness-agents/models"
)

const (
	inSeasonMark  = "🌱"
	offSeasonMark = "❄️"
)

// Render writes a human-readable report of a forecast, one block per day.
// The plant section is printed only when the service returned plant data.
func Render(w io.Writer, forecast models.PollenForecast) error {
	bw := bufio.NewWriter(w)

	rule := strings.Repeat("=", 60)
	fmt.Fprintf(bw, "\n%s\n%s\n", rule, rule)

	if forecast.RegionCode != "" {
		fmt.Fprintf(bw, "Region: %s\n", forecast.RegionCode)
	}

	for _, day := range forecast.DailyInfo {
		fmt.Fprintf(bw, "\n📅 %s\n", day.Date)

		for _, entry := range day.PollenTypeInfo {
			fmt.Fprintf(bw, "   %s\n", formatEntry(entry))
		}

		if day.PlantInfo != nil {
			fmt.Fprintln(bw, "   Specific Plants:")
			for _, plant := range day.PlantInfo {
				fmt.Fprintf(bw, "     %s\n", formatEntry(plant))
			}
		}
	}

	return bw.Flush()
}

// formatEntry renders "<season> <name>: <category> (Index: <value>)"
func formatEntry(e models.PollenIndexEntry) string {
	name := e.DisplayName
	if name == "" {
		name = "Unknown"
	}

	category, value := "N/A", "N/A"
	if e.IndexInfo != nil {
		if e.IndexInfo.Category != "" {
			category = e.IndexInfo.Category
		}
		if e.IndexInfo.Value != nil {
			value = strconv.Itoa(*e.IndexInfo.Value)
		}
	}

	season := offSeasonMark
	if e.InSeason {
		season = inSeasonMark
	}

	return fmt.Sprintf("%s %s: %s (Index: %s)", season, name, category, value)
}
