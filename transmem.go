// Package transmem is a translation-memory and segment-reuse engine.
//
// Transmem wraps an external translation capability (OpenAI, a local model,
// anything implementing Provider) with a durable SQLite translation memory:
// documents are content-addressed and deduplicated, split into sentence-scale
// segments, and each segment is matched against previously translated
// segments before the provider is invoked. Sufficiently similar matches are
// reused verbatim; everything else is translated, cleaned, and written back
// so the next run can reuse it.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/transmem"
//	    "github.com/ZaguanLabs/transmem/provider"
//	    "github.com/ZaguanLabs/transmem/store"
//	)
//
//	func main() {
//	    st, err := store.Open("translations.db")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    p := provider.NewOpenAI(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    engine := transmem.NewEngine(st, p)
//	    defer engine.Close()
//
//	    out, err := engine.TranslateDocument(context.Background(),
//	        "notes.txt", "Hello world. This is a test.", "en-fr", nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out)
//	}
package transmem
