// Command resolve is a minimal diagnostic binary around the resolve
// library: given a referring directory and a specifier, print the
// resolution result. It is the ambient CLI surface spec.md §1 names as
// an external collaborator (not part of the core), following the
// teacher's convention of a thin cmd/esbuild binary wrapping
// internal/resolver (evanw-esbuild/cmd/esbuild/main.go), but built on
// cobra/viper the way bennypowers-mappa's cmd/ layout does, since this
// module's core carries no CLI framework of its own.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bvanjoi/node-resolver/resolve"
)

var rootCmd = &cobra.Command{
	Use:   "resolve <referring-dir> <specifier>",
	Short: "Resolve a module specifier the way a bundler would",
	Long:  "resolve runs a single specifier through the node-resolver library and prints the result.",
	Args:  cobra.ExactArgs(2),
	RunE:  run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringSlice("extensions", []string{".js", ".json"}, "extensions probed during resolve-as-file, in priority order")
	flags.StringSlice("conditions", []string{"node"}, "exports/imports condition names")
	flags.Bool("browser-field", false, "honor package.json \"browser\" field rewriting")
	flags.Bool("prefer-relative", false, "retry a bare specifier as ./specifier before the node_modules walk")
	flags.Bool("symlinks", true, "resolve the final path to its realpath")
	flags.String("tsconfig", "", "absolute or cwd-relative path to a tsconfig.json to apply \"paths\" from")
	flags.Bool("fully-specified", false, "require an exact match, skipping extension probing")
	flags.String("config", "", "optional config file (json/yaml/toml) supplying any of the above flags")
	flags.String("format", "text", "output format: text or json")

	_ = viper.BindPFlags(flags)
}

func run(cmd *cobra.Command, args []string) error {
	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %q: %w", cfgFile, err)
		}
	}

	opts := resolve.Options{
		Extensions:     stripLeadingDots(viper.GetStringSlice("extensions")),
		ConditionNames: viper.GetStringSlice("conditions"),
		BrowserField:   viper.GetBool("browser-field"),
		PreferRelative: viper.GetBool("prefer-relative"),
		Symlinks:       viper.GetBool("symlinks"),
		TsconfigPath:   viper.GetString("tsconfig"),
		FullySpecified: viper.GetBool("fully-specified"),
	}

	r, err := resolve.New(opts)
	if err != nil {
		return fmt.Errorf("building resolver: %w", err)
	}

	referringDir, specifier := args[0], args[1]
	result, resolveErr := r.Resolve(referringDir, specifier)

	format := viper.GetString("format")
	if format == "json" {
		return printJSON(result, resolveErr)
	}
	return printText(result, resolveErr)
}

func stripLeadingDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = strings.TrimPrefix(e, ".")
	}
	return out
}

func printText(result resolve.Result, err error) error {
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve failed:", err)
		return err
	}
	if result.Ignored {
		fmt.Println("(ignored)")
		return nil
	}
	fmt.Println(result.Resource.Path + result.Resource.Query + result.Resource.Fragment)
	return nil
}

func printJSON(result resolve.Result, err error) error {
	out := map[string]any{}
	if err != nil {
		out["error"] = err.Error()
	} else if result.Ignored {
		out["ignored"] = true
	} else {
		out["path"] = result.Resource.Path
		out["query"] = result.Resource.Query
		out["fragment"] = result.Resource.Fragment
		if result.Resource.Descriptor != "" {
			out["descriptor"] = result.Resource.Descriptor
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(out); encErr != nil {
		return encErr
	}
	if err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
