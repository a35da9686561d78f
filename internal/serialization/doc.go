// Package serialization saves and loads layer state dicts as NumPy .npz archives.
//
// Every state dict entry is stored as one 2D float64 array named
// "<key>.npy", so checkpoints can be inspected with numpy:
//
//	>>> ckpt = numpy.load("xor.npz")
//	>>> ckpt["weight.0"].shape
//	(3, 2)
//
// An extra "__checksum__.npy" entry holds the SHA-256 of the state and is
// verified on load.
//
// Example usage:
//
//	// Save a model
//	if err := serialization.Save("xor.npz", dense); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load it back into a model of the same structure
//	if err := serialization.Load("xor.npz", dense); err != nil {
//	    log.Fatal(err)
//	}
package serialization
