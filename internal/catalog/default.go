package catalog

// defaultImages is the built-in demo collection served when no catalog file
// is configured.
var defaultImages = map[string]string{
	"Blue Running Shoes":  "https://firebasestorage.googleapis.com/v0/b/bm-shopping-cart-ycsl.appspot.com/o/blue_running_shoes.jpg?alt=media",
	"Neon Running Shoes":  "https://firebasestorage.googleapis.com/v0/b/bm-shopping-cart-ycsl.appspot.com/o/neon_running_shoes.jpg?alt=media",
	"Pink Running Shoes":  "https://firebasestorage.googleapis.com/v0/b/bm-shopping-cart-ycsl.appspot.com/o/pink_running_shoes.jpg?alt=media",
	"Teal Running Shoes":  "https://firebasestorage.googleapis.com/v0/b/bm-shopping-cart-ycsl.appspot.com/o/teal_running_shoes.jpg?alt=media",
	"White Running Shoes": "https://firebasestorage.googleapis.com/v0/b/bm-shopping-cart-ycsl.appspot.com/o/white_running_shoe.jpg?alt=media",
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultImages)
}
