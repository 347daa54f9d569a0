package cli

import (
	"resumeparser/internal/common"
	"resumeparser/internal/formatters"
	"resumeparser/internal/types"

	"github.com/spf13/cobra"
)

// customizationFlags are the user overrides shared by generate, tailor and watch
type customizationFlags struct {
	profileImage string
	colors       []string
}

func (f *customizationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.profileImage, "profile-image", "", "Profile image URL to set on the result")
	cmd.Flags().StringArrayVar(&f.colors, "color", nil, "Custom color as key=value (repeatable)")
}

func (f *customizationFlags) build() (types.Customizations, error) {
	colors, err := common.ParseColors(f.colors)
	if err != nil {
		return types.Customizations{}, err
	}
	return types.Customizations{ProfileImage: f.profileImage, CustomColors: colors}, nil
}

// registerOutputFlags adds -o/--output and --format bound to out
func registerOutputFlags(cmd *cobra.Command, out *common.CommandConfig) {
	cmd.Flags().StringVarP(&out.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&out.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return formatters.GlobalRegistry.GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutputFormat applies the configured default format and validates it
func resolveOutputFormat(cmd *cobra.Command, out *common.CommandConfig) error {
	cfg := getConfigFromContext(cmd.Context())
	if out.OutputFormat == "" {
		out.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(out.OutputFormat, cfg.App.SupportedFormats)
}

// newCommandRunner writes stdout results to the command's output stream
func newCommandRunner(cmd *cobra.Command, rt *runtime) *common.CommandRunner {
	runner := common.NewCommandRunner(common.NewFileProcessor(rt.loader, rt.logger), rt.logger)
	runner.Output.WithStdout(cmd.OutOrStdout())
	return runner
}
