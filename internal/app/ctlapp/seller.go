package ctlapp

import (
	"context"
	"fmt"

	"github.com/petnest/petnest/internal/client"
	"github.com/petnest/petnest/internal/console"
	"github.com/petnest/petnest/internal/transport/http/dto"
)

func (a *App) seller(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: seller needs a subcommand", ErrUsage)
	}
	gate := console.NewSellerGate(a.api, a.notifier)

	switch args[0] {
	case "status":
		fmt.Fprintf(a.out, "seller status: %s\n", gate.Status(ctx))
		return nil
	case "register":
		fs := newFlagSet("seller register", a.out)
		var req dto.RegisterSellerRequest
		fs.StringVar(&req.BusinessName, "business", "", "business name")
		fs.StringVar(&req.Phone, "phone", "", "contact phone")
		fs.StringVar(&req.City, "city", "", "city")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		created, err := a.api.RegisterSeller(ctx, req)
		if err != nil {
			return fmt.Errorf("register seller: %s", client.Message(err))
		}
		fmt.Fprintf(a.out, "seller %d registered, status %s\n", created.ID, created.Status)
		return nil
	case "add-pet":
		return a.addPet(ctx, gate, args[1:])
	default:
		return fmt.Errorf("%w: unknown seller subcommand %q", ErrUsage, args[0])
	}
}

func (a *App) addPet(ctx context.Context, gate *console.SellerGate, args []string) error {
	fs := newFlagSet("seller add-pet", a.out)
	var draft dto.CreatePetRequest
	var breed int64
	fs.StringVar(&draft.Name, "name", "", "pet name")
	fs.Int64Var(&draft.SpeciesID, "species", 0, "species id")
	fs.Int64Var(&breed, "breed", 0, "breed id")
	fs.IntVar(&draft.AgeMonths, "age", 0, "age in months")
	fs.StringVar(&draft.Gender, "gender", "", "male or female")
	fs.Int64Var(&draft.PriceCents, "price", 0, "price in cents")
	fs.StringVar(&draft.Description, "description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if breed > 0 {
		draft.BreedID = &breed
	}

	created, err := gate.Submit(ctx, &draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "pet %d submitted, status %s\n", created.ID, created.Status)
	return nil
}
