// Package symptomd embeds the symptomd disease classifier in a Go program.
//
// The client loads a trained model artifact, turns a set of symptoms into a
// disease prediction with care guidance, and can reload the artifact at run
// time without interrupting in-flight predictions.
//
//	client, err := symptomd.New(ctx, symptomd.WithModelPath("model.json"))
//	if err != nil { ... }
//	defer client.Close()
//
//	p, err := client.Predict(ctx, []string{"fever", "cough", "runny_nose"})
//	switch {
//	case errors.Is(err, symptomd.ErrEmptyInput):
//	    // ask the user to pick at least one known symptom
//	case errors.Is(err, symptomd.ErrModelUnavailable):
//	    // retry later or call client.Reload
//	}
//	fmt.Println(p.Disease, p.Confidence, p.Specialization)
//
// Prediction statistics are optional and need Redis (WithRedis).
package symptomd
