package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/agentconf/internal/domain"
)

// artifactCmd builds the command family for one artifact kind. The three
// kinds share their whole CLI surface; kind-specific flags are added
// where they apply.
func artifactCmd(kind, short string) *cobra.Command {
	k := domain.Kind(kind)

	cmd := &cobra.Command{
		Use:     kind,
		Aliases: []string{kind + "s"},
		Short:   short,
	}

	cmd.AddCommand(
		artifactListCmd(k),
		artifactShowCmd(k),
		artifactCreateCmd(k),
		artifactDeleteCmd(k),
	)
	return cmd
}

func artifactListCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss in the target scope", kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := st.ListArtifacts(cmd.Context(), targetScope(), kind)
			if err != nil {
				return err
			}
			fmt.Print(out.Artifacts(list))
			return nil
		},
	}
}

func artifactShowCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: fmt.Sprintf("Show one %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := st.GetArtifact(cmd.Context(), targetScope(), kind, args[0])
			if err != nil {
				return err
			}
			fmt.Print(out.Artifact(a))
			return nil
		},
	}
}

func artifactCreateCmd(kind domain.Kind) *cobra.Command {
	var (
		description string
		content     string
		contentFile string
		argHint     string
		tools       string
		model       string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: fmt.Sprintf("Create a new %s", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readContent(contentFile, content)
			if err != nil {
				return err
			}
			a := domain.Artifact{
				Kind:        kind,
				Name:        args[0],
				Description: description,
				Content:     body,
			}
			switch kind {
			case domain.KindCommand:
				a.ArgumentHint = argHint
			default:
				a.Tools = splitList(tools)
				a.Model = domain.Model(model)
				if !a.Model.Valid() {
					return fmt.Errorf("unknown model %q", model)
				}
			}
			created, err := st.CreateArtifact(cmd.Context(), targetScope(), a)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s %q at %s\n", created.Kind, created.Name, created.Location)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "one-line description")
	cmd.Flags().StringVar(&content, "content", "", "inline content")
	cmd.Flags().StringVarP(&contentFile, "file", "f", "", "read content from file (- for stdin)")
	if kind == domain.KindCommand {
		cmd.Flags().StringVar(&argHint, "arg-hint", "", "argument hint shown on invocation")
	} else {
		cmd.Flags().StringVar(&tools, "tools", "", "comma-separated capability names")
		cmd.Flags().StringVar(&model, "model", string(domain.ModelInherit), "model tier (inherit, haiku, sonnet, opus)")
	}
	return cmd
}

func artifactDeleteCmd(kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: fmt.Sprintf("Delete a %s (no-op when absent)", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.DeleteArtifact(cmd.Context(), targetScope(), kind, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted %s %q\n", kind, args[0])
			return nil
		},
	}
}
