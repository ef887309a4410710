package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
	} {
		Register(t)
	}
}

// thDefaultTheme returns the dark neutral theme with a tomato accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#e5534b",
		Border:     "#3e3e3e",

		Digits: "#f0f0f0",

		Running: "#4ec970",
		Paused:  "#e5c07b",
		Stopped: "#6b6b6b",
		Done:    "#e06c75",

		ProgressFrom:  "#e5534b",
		ProgressTo:    "#4ec970",
		ProgressEmpty: "#3e3e3e",

		HelpKey:  "#e5534b",
		HelpDesc: "#6b6b6b",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox theme.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",
		Border:     "#504945",

		Digits: "#fbf1c7",

		Running: "#b8bb26",
		Paused:  "#fabd2f",
		Stopped: "#928374",
		Done:    "#fb4934",

		ProgressFrom:  "#fe8019",
		ProgressTo:    "#b8bb26",
		ProgressEmpty: "#504945",

		HelpKey:  "#fe8019",
		HelpDesc: "#928374",
	}
}

// thNordTheme returns the cool arctic Nord theme.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Foreground: "#d8dee9",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",
		Border:     "#3b4252",

		Digits: "#eceff4",

		Running: "#a3be8c",
		Paused:  "#ebcb8b",
		Stopped: "#4c566a",
		Done:    "#bf616a",

		ProgressFrom:  "#5e81ac",
		ProgressTo:    "#88c0d0",
		ProgressEmpty: "#3b4252",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}
