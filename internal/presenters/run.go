// Package presenters renders finished runs as Discord messages.
package presenters

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/glizzus/timed-requests/internal/report"
	"github.com/glizzus/timed-requests/internal/schedule"
)

const (
	colorSuccess = 0x2ecc71
	colorFailure = 0xe74c3c
)

func runTitle(run report.Run) string {
	if run.Result.Success {
		return "Success."
	}
	return "Error."
}

func runColor(run report.Run) int {
	if run.Result.Success {
		return colorSuccess
	}
	return colorFailure
}

func fireLine(f report.Fire) string {
	if !f.OK() {
		return fmt.Sprintf("`%s` not sent: %s", f.Target, f.Error)
	}
	return fmt.Sprintf("`%s` sent `%s` (%d, drift %s)", f.Target, f.Sent, f.StatusCode, f.Drift)
}

// maxFireLines keeps the embed under Discord's field limits.
const maxFireLines = 20

func buildFiresField(fires []report.Fire) *discordgo.MessageEmbedField {
	lines := make([]string, 0, min(len(fires), maxFireLines)+1)
	for i, f := range fires {
		if i == maxFireLines {
			lines = append(lines, fmt.Sprintf("... and %d more", len(fires)-maxFireLines))
			break
		}
		lines = append(lines, fireLine(f))
	}
	return &discordgo.MessageEmbedField{
		Name:  "Fires",
		Value: strings.Join(lines, "\n"),
	}
}

// BuildRunMessage summarises a run for posting to a channel.
func BuildRunMessage(run report.Run) *discordgo.MessageSend {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Endpoint", Value: run.Endpoint, Inline: true},
		{Name: "Source", Value: run.Source, Inline: true},
	}
	if len(run.Fires) > 0 {
		fields = append(fields, buildFiresField(run.Fires))
	}
	if len(run.Result.Missed) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Missed requests",
			Value: strings.Join(schedule.Strings(run.Result.Missed), ", "),
		})
	}

	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:  runTitle(run),
				Color:  runColor(run),
				Fields: fields,
				Footer: &discordgo.MessageEmbedFooter{
					Text: "run " + run.ID,
				},
			},
		},
	}
}
