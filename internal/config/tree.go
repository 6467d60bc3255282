package config

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/tree"

	"github.com/pixelbus/pixelbus/internal/fancy"
)

// Tree renders the config as a styled tree for terminal output.
func (c *Config) Tree() *tree.Tree {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render("pixelbus run " + c.Version))

	t.Child(fancy.BranchNode("Script", fancy.ScriptText(c.Script.Path)))
	t.Child(fancy.BranchNode("Channel", c.Channel.Mode))
	t.Child(fancy.BranchNode("Canvas", fmt.Sprintf("%dx%d @ %d fps",
		c.Canvas.Width, c.Canvas.Height, c.Canvas.FPS)))
	t.Child(fancy.BranchNode("Logging", fmt.Sprintf("%s (%s)",
		c.Logging.Level, c.Logging.Format)))

	if len(c.Assets) > 0 {
		assets := fancy.BranchNode("Assets", fmt.Sprintf("(%d entries)", len(c.Assets)))
		for _, a := range c.Assets {
			assets.Child(fancy.AssetText(a.Name) + " " + fancy.PathText(a.Path))
		}
		t.Child(assets)
	}

	return t
}
