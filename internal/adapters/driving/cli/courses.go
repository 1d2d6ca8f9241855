package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List indexed courses",
	RunE:  runCourses,
}

var coursesOutlineCmd = &cobra.Command{
	Use:   "outline [course]",
	Short: "Show the lesson list of a course",
	Long: `Shows the outline of a course. The course name is resolved against
the catalog, so partial titles like "MCP" match "Introduction to MCP".`,
	Args: cobra.ExactArgs(1),
	RunE: runCoursesOutline,
}

func init() {
	coursesCmd.AddCommand(coursesOutlineCmd)
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	titles, err := catalogService.Titles(cmd.Context())
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	if len(titles) == 0 {
		cmd.Println("No courses indexed. Run 'coursechat ingest' first.")
		return nil
	}

	cmd.Printf("Courses (%d):\n", len(titles))
	for _, title := range titles {
		cmd.Printf("  - %s\n", title)
	}
	return nil
}

func runCoursesOutline(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	course, err := catalogService.Outline(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get outline: %w", err)
	}

	cmd.Printf("Course: %s\n", course.Title)
	if course.Instructor != "" {
		cmd.Printf("Instructor: %s\n", course.Instructor)
	}
	if course.Link != "" {
		cmd.Printf("Link: %s\n", course.Link)
	}
	cmd.Printf("Lessons (%d):\n", len(course.Lessons))
	for _, lesson := range course.Lessons {
		cmd.Printf("  %d. %s\n", lesson.Number, lesson.Title)
	}
	return nil
}
