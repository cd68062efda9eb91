package domain

// SampleTemplates is the built-in collection seeded into an empty store.
func SampleTemplates() []TemplateInput {
	return []TemplateInput{
		{
			Name:        "Portrait Grid Collection",
			Description: "Professional portrait photography layout with elegant spacing",
			Category:    "portrait",
			ImageURL:    "https://images.unsplash.com/photo-1534528741775-53994a69daeb?w=400&h=600&fit=crop&crop=face",
			GridConfig:  "grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 1.5rem;",
		},
		{
			Name:        "Landscape Nature Series",
			Description: "Stunning landscape photography showcasing natural beauty",
			Category:    "landscape",
			ImageURL:    "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=600&h=400&fit=crop",
			GridConfig:  "grid-template-columns: repeat(auto-fit, minmax(400px, 1fr)); gap: 2rem;",
		},
		{
			Name:        "Square Photo Mosaic",
			Description: "Clean square format perfect for Instagram-style galleries",
			Category:    "square",
			ImageURL:    "https://images.unsplash.com/photo-1513475382585-d06e58bcb0e0?w=400&h=400&fit=crop",
			GridConfig:  "grid-template-columns: repeat(auto-fit, minmax(250px, 1fr)); gap: 1rem; aspect-ratio: 1;",
		},
		{
			Name:        "Wedding Collage Template",
			Description: "Romantic wedding photography collage with multiple photo slots",
			Category:    "collage",
			ImageURL:    "https://images.unsplash.com/photo-1519741497674-611481863552?w=500&h=400&fit=crop",
			GridConfig:  "display: grid; grid-template-columns: 2fr 1fr 1fr; grid-template-rows: 1fr 1fr; gap: 0.5rem;",
		},
		{
			Name:        "Fashion Portfolio Grid",
			Description: "High-fashion portrait layout for model portfolios",
			Category:    "portrait",
			ImageURL:    "https://images.unsplash.com/photo-1529626455594-4ff0802cfb7e?w=400&h=600&fit=crop&crop=face",
			GridConfig:  "grid-template-columns: repeat(auto-fit, minmax(280px, 1fr)); gap: 1.2rem;",
		},
		{
			Name:        "Urban Architecture",
			Description: "Modern cityscape and architectural photography display",
			Category:    "landscape",
			ImageURL:    "https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=600&h=400&fit=crop",
			GridConfig:  "grid-template-columns: repeat(auto-fit, minmax(350px, 1fr)); gap: 1.8rem;",
		},
		{
			Name:        "Minimalist Square Grid",
			Description: "Clean, minimal square layout with generous whitespace",
			Category:    "square",
			ImageURL:    "https://images.unsplash.com/photo-1441974231531-c6227db76b6e?w=400&h=400&fit=crop",
			GridConfig:  "grid-template-columns: repeat(auto-fit, minmax(300px, 1fr)); gap: 2.5rem;",
		},
		{
			Name:        "Travel Memory Collage",
			Description: "Adventure and travel photography collection layout",
			Category:    "collage",
			ImageURL:    "https://images.unsplash.com/photo-1488646953014-85cb44e25828?w=500&h=400&fit=crop",
			GridConfig:  "display: grid; grid-template-columns: 1fr 1fr 1fr; grid-template-rows: auto auto; gap: 1rem;",
		},
	}
}
