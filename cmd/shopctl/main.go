package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - products:     List products, optionally by category
// - cart:         Show the signed-in user's cart
// - cart-add:     Add a product to the cart
// - wishlist:     Show the signed-in user's wish-list
// - wishlist-add: Add a product to the wish-list
// - whoami:       Print the persisted user
// - login:        Store a session token and user profile
// - logout:       Forget the session

func main() {
	productsCmd := flag.NewFlagSet("products", flag.ExitOnError)
	cartCmd := flag.NewFlagSet("cart", flag.ExitOnError)
	cartAddCmd := flag.NewFlagSet("cart-add", flag.ExitOnError)
	wishListCmd := flag.NewFlagSet("wishlist", flag.ExitOnError)
	wishListAddCmd := flag.NewFlagSet("wishlist-add", flag.ExitOnError)
	whoamiCmd := flag.NewFlagSet("whoami", flag.ExitOnError)
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	logoutCmd := flag.NewFlagSet("logout", flag.ExitOnError)

	// products parameters
	productsCategory := productsCmd.String("category", "", "Only list products of this category")

	// cart-add parameters
	cartAddProduct := cartAddCmd.String("product", "", "Product id to add")
	cartAddQuantity := cartAddCmd.Int("quantity", 1, "Quantity to add")

	// wishlist-add parameters
	wishListAddProduct := wishListAddCmd.String("product", "", "Product id to save")

	// login parameters
	loginToken := loginCmd.String("token", "", "Session token issued by the backend")
	loginUserID := loginCmd.String("id", "", "User id (read from the token when empty)")
	loginEmail := loginCmd.String("email", "", "User email")
	loginFirstName := loginCmd.String("first-name", "", "User first name")
	loginLastName := loginCmd.String("last-name", "", "User last name")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	flags := shopFlags{
		Products: productsFlags{
			cmd:      productsCmd,
			category: productsCategory,
		},
		Cart: cartCmd,
		CartAdd: addFlags{
			cmd:      cartAddCmd,
			product:  cartAddProduct,
			quantity: cartAddQuantity,
		},
		WishList: wishListCmd,
		WishListAdd: addFlags{
			cmd:     wishListAddCmd,
			product: wishListAddProduct,
		},
		Whoami: whoamiCmd,
		Login: loginFlags{
			cmd:       loginCmd,
			token:     loginToken,
			userID:    loginUserID,
			email:     loginEmail,
			firstName: loginFirstName,
			lastName:  loginLastName,
		},
		Logout: logoutCmd,
	}

	if err := runSubcommand(ctx, &flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type shopFlags struct {
	Products    productsFlags
	Cart        *flag.FlagSet
	CartAdd     addFlags
	WishList    *flag.FlagSet
	WishListAdd addFlags
	Whoami      *flag.FlagSet
	Login       loginFlags
	Logout      *flag.FlagSet
}

type productsFlags struct {
	cmd      *flag.FlagSet
	category *string
}

type addFlags struct {
	cmd      *flag.FlagSet
	product  *string
	quantity *int
}

type loginFlags struct {
	cmd       *flag.FlagSet
	token     *string
	userID    *string
	email     *string
	firstName *string
	lastName  *string
}

func runSubcommand(ctx context.Context, flags *shopFlags) error {
	cmd, ok := flags.lookup(os.Args[1])
	if !ok {
		printUsage()

		return errors.New("unknown subcommand")
	}
	if err := cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrapf(err, "failed to parse %s flags", os.Args[1])
	}

	a, err := newApp(ctx, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	switch os.Args[1] {
	case "products":
		return a.products(ctx, *flags.Products.category)
	case "cart":
		return a.cart(ctx)
	case "cart-add":
		return a.cartAdd(ctx, *flags.CartAdd.product, *flags.CartAdd.quantity)
	case "wishlist":
		return a.wishList(ctx)
	case "wishlist-add":
		return a.wishListAdd(ctx, *flags.WishListAdd.product)
	case "whoami":
		return a.whoami()
	case "login":
		return a.login(ctx, loginInput{
			token:     *flags.Login.token,
			userID:    *flags.Login.userID,
			email:     *flags.Login.email,
			firstName: *flags.Login.firstName,
			lastName:  *flags.Login.lastName,
		})
	default:
		return a.logout(ctx)
	}
}

func (f *shopFlags) lookup(name string) (*flag.FlagSet, bool) {
	switch name {
	case "products":
		return f.Products.cmd, true
	case "cart":
		return f.Cart, true
	case "cart-add":
		return f.CartAdd.cmd, true
	case "wishlist":
		return f.WishList, true
	case "wishlist-add":
		return f.WishListAdd.cmd, true
	case "whoami":
		return f.Whoami, true
	case "login":
		return f.Login.cmd, true
	case "logout":
		return f.Logout, true
	default:
		return nil, false
	}
}

func printUsage() {
	fmt.Println("Storefront Shop CLI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shopctl <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  products      List products")
	fmt.Println("  cart          Show your cart")
	fmt.Println("  cart-add      Add a product to your cart")
	fmt.Println("  wishlist      Show your wish-list")
	fmt.Println("  wishlist-add  Save a product to your wish-list")
	fmt.Println("  whoami        Print the signed-in user")
	fmt.Println("  login         Store a session token")
	fmt.Println("  logout        Forget the session")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  shopctl login -token $TOKEN -email jane@example.com")
	fmt.Println("  shopctl products -category shoes")
	fmt.Println("  shopctl cart-add -product 64f0c2 -quantity 2")
}
