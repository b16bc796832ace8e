package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eringen/blogkit/scaffold"
)

var newCmd = &cobra.Command{
	Use:     "new <project-name>",
	Short:   "Create a new blogkit project",
	Example: "  blogkit new myblog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	SiteName    string
}

func runNew(cmd *cobra.Command, name string) error {
	dirName := filepath.Base(filepath.Clean(name))
	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("directory %q already exists", name)
	}

	data := scaffoldData{
		ProjectName: dirName,
		SiteName:    toTitle(dirName),
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Creating new blogkit project: %s\n\n", dirName)

	if err := writeScaffold(name, data, func(path string) {
		fmt.Fprintf(out, "  created %s\n", path)
	}); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", name)
	fmt.Fprintln(out, "  blogkit serve")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Write posts in content/posts and edit blogkit.toml to describe your site.")
	return nil
}

// writeScaffold renders every embedded template into dest, stripping the
// .tmpl suffix and renaming dotenv to .env.example.
func writeScaffold(dest string, data scaffoldData, created func(string)) error {
	const root = "templates"
	return fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dest, relPath), ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		created(outPath)
		return nil
	})
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(s)
}
