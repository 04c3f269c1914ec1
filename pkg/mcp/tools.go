package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/shapespec/pkg/semantic"
	"github.com/gnana997/shapespec/pkg/style"
)

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func surfaceArg() mcp.ToolOption {
	return mcp.WithString("surface", mcp.Required(),
		mcp.Description("Surface variant the control sits on"),
		mcp.Enum(names(style.Surfaces())...))
}

func hierarchyArg() mcp.ToolOption {
	return mcp.WithString("hierarchy", mcp.Required(),
		mcp.Description("Hierarchy tier of the control"),
		mcp.Enum(names(style.Hierarchies())...))
}

func highPriorityArg() mcp.ToolOption {
	return mcp.WithBoolean("high_priority",
		mcp.Description("Escalates a primary control to the high tier. Ignored for other tiers."))
}

func stateArg(required bool) mcp.ToolOption {
	opts := []mcp.PropertyOption{
		mcp.Description("Interaction state"),
		mcp.Enum(names(style.States())...),
	}
	if required {
		opts = append(opts, mcp.Required())
	}
	return mcp.WithString("state", opts...)
}

func resolveShapeTool() mcp.Tool {
	return mcp.NewTool("resolve_shape",
		mcp.WithDescription("Resolve the complete style record (colors and dimensions) for one button configuration."),
		surfaceArg(),
		hierarchyArg(),
		highPriorityArg(),
		mcp.WithString("input", mcp.Required(),
			mcp.Description("Input modality: sw (touch/pointer) or hw (hardware focus)"),
			mcp.Enum(names(style.Inputs())...)),
		mcp.WithString("size", mcp.Required(),
			mcp.Description("Size class"),
			mcp.Enum(names(style.Sizes())...)),
		stateArg(true),
		mcp.WithString("intent",
			mcp.Description("Button intent. Defaults to neutral; currently does not change the result."),
			mcp.Enum(names(style.Intents())...)),
	)
}

func resolvePaletteTool() mcp.Tool {
	return mcp.NewTool("resolve_palette",
		mcp.WithDescription("Resolve every color channel (all state backgrounds, frame, border, hardware outline, labels) for a surface and hierarchy."),
		surfaceArg(),
		hierarchyArg(),
		highPriorityArg(),
	)
}

func resolveTokenNameTool() mcp.Tool {
	return mcp.NewTool("resolve_token_name",
		mcp.WithDescription("Return the design token name used for a hierarchy, part and state, after fallbacks."),
		hierarchyArg(),
		mcp.WithString("part", mcp.Required(),
			mcp.Description("Visual part"),
			mcp.Enum(names(semantic.Parts())...)),
		stateArg(false),
	)
}

func lookupColorTool() mcp.Tool {
	return mcp.NewTool("lookup_color",
		mcp.WithDescription("Look up the color of a token by name under a surface variant."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Token name as it appears in the export")),
		surfaceArg(),
	)
}

func surfaceBackgroundTool() mcp.Tool {
	return mcp.NewTool("surface_background",
		mcp.WithDescription("Return the scene background color behind controls on a surface."),
		surfaceArg(),
	)
}

func listTokensTool() mcp.Tool {
	return mcp.NewTool("list_tokens",
		mcp.WithDescription("List the tokens in the loaded export with their colors per surface and where the button map uses them."),
		mcp.WithString("prefix", mcp.Description("Only list tokens whose name starts with this prefix")),
		mcp.WithBoolean("referenced_only", mcp.Description("Only list tokens the button map references")),
	)
}

func auditTokensTool() mcp.Tool {
	return mcp.NewTool("audit_tokens",
		mcp.WithDescription("Check the loaded export for missing tokens, unparsable colors and low label contrast."),
	)
}
