package functions_test

import (
	"context"
	"fmt"
	"net/http"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/https"
	"github.com/Jayother24/firebase-functions/pubsub"
)

func Example() {
	functions.SetDefaults(functions.RuntimeOptions{
		Region: "us-central1",
		Labels: map[string]string{"env": "prod"},
	})

	hello, err := https.OnRequest(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "hello")
	})
	if err != nil {
		panic(err)
	}

	resize, err := pubsub.OnPublish("image-uploads", func(ctx context.Context, e pubsub.Event) error {
		payload, err := e.Message.JSON()
		if err != nil {
			return err
		}
		_ = payload
		return nil
	})
	if err != nil {
		panic(err)
	}

	_ = functions.Register("hello", hello)
	_ = functions.Register("resize", resize)

	manifest := functions.BuildManifest()
	fmt.Println(manifest.Endpoints["resize"].EventTrigger.EventFilters["topic"])
	// Output: image-uploads
}
