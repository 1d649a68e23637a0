package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/planforge/planforge/internal/pipeline"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a single lesson plan and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger("development")
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		defer log.Sync()

		subject, _ := cmd.Flags().GetString("subject")
		grade, _ := cmd.Flags().GetString("grade")
		topic, _ := cmd.Flags().GetString("topic")
		duration, _ := cmd.Flags().GetInt("duration")
		style, _ := cmd.Flags().GetString("style")
		groupInfo, _ := cmd.Flags().GetString("group-info")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := buildProvider(ctx, st.AuditLog(), log)
		if err != nil {
			return err
		}

		pl := pipeline.New(provider, resourceLookup(), pipeline.DefaultConfig(), log)

		result, err := pl.Generate(ctx, plan.RawRequest{
			Subject:          subject,
			GradeLevel:       grade,
			Topic:            topic,
			DurationMinutes:  duration,
			TeachingStyle:    style,
			StudentGroupInfo: groupInfo,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	generateCmd.Flags().StringP("subject", "s", "", "Subject (e.g. Mathematics)")
	generateCmd.Flags().StringP("grade", "g", "", "Grade level (e.g. 7th Grade)")
	generateCmd.Flags().StringP("topic", "t", "", "Lesson topic")
	generateCmd.Flags().IntP("duration", "d", plan.DefaultDurationMinutes, "Duration in minutes")
	generateCmd.Flags().String("style", "", "Teaching style (defaults to mixed)")
	generateCmd.Flags().String("group-info", "", "Student group accommodations")

	_ = generateCmd.MarkFlagRequired("subject")
	_ = generateCmd.MarkFlagRequired("grade")
	_ = generateCmd.MarkFlagRequired("topic")
}
