package catalog

import "github.com/example/buttg/pkg/models"

var menuItems = []models.MenuItem{
	{ID: "zinger-burger", Name: "Zinger Burger", Price: 450, Category: models.CategoryBurgers, Description: "Crispy fried chicken fillet, lettuce and house mayo", Image: "/zinger-burger.jpg", IsPopular: true},
	{ID: "anda-shami-burger", Name: "Anda Shami Burger", Price: 220, Category: models.CategoryBurgers, Description: "Shami kabab with fried egg, onions and chutney", Image: "/anda-shami-burger.jpg"},
	{ID: "chicken-burger", Name: "Chicken Burger", Price: 350, Category: models.CategoryBurgers, Description: "Grilled chicken patty with cheese slice", Image: "/juicy-cheeseburger.png"},
	{ID: "tikka-burger", Name: "Tikka Burger", Price: 480, Category: models.CategoryBurgers, Description: "Smoky tikka chicken with mint mayo", Image: "/tikka-burger.jpg", IsNew: true},
	{ID: "grill-burger", Name: "Grill Burger", Price: 520, Category: models.CategoryBurgers, Description: "Flame-grilled patty, jalapenos and garlic sauce", Image: "/grill-burger.jpg"},
	{ID: "pizza-burger", Name: "Pizza Burger", Price: 550, Category: models.CategoryBurgers, Description: "Burger topped with pizza sauce and mozzarella", Image: "/pizza-burger.jpg", IsNew: true},

	{ID: "chicken-tikka-pizza", Name: "Chicken Tikka Pizza", Price: 800, Category: models.CategoryPizzas, Description: "Tikka chicken, onions, capsicum and mozzarella", Image: "/delicious-pizza-slice.jpg", IsPopular: true, Sizes: []models.Size{
		{Name: "Small", Price: 800}, {Name: "Medium", Price: 1200}, {Name: "Large", Price: 1500}, {Name: "Family", Price: 2100},
	}},
	{ID: "fajita-pizza", Name: "Chicken Fajita Pizza", Price: 850, Category: models.CategoryPizzas, Description: "Fajita chicken, peppers and olives", Image: "/fajita-pizza.jpg", Sizes: []models.Size{
		{Name: "Small", Price: 850}, {Name: "Medium", Price: 1250}, {Name: "Large", Price: 1600}, {Name: "Family", Price: 2200},
	}},
	{ID: "cheese-lover-pizza", Name: "Cheese Lover Pizza", Price: 750, Category: models.CategoryPizzas, Description: "Four cheese blend on a hand-tossed base", Image: "/cheese-pizza.jpg", Sizes: []models.Size{
		{Name: "Small", Price: 750}, {Name: "Medium", Price: 1150}, {Name: "Large", Price: 1450},
	}},

	{ID: "chicken-shawarma", Name: "Chicken Shawarma", Price: 250, Category: models.CategoryShawarmas, Description: "Authentic Pakistani style with garlic sauce", Image: "/chicken-shawarma-wrap.png", IsPopular: true, Sizes: []models.Size{
		{Name: "Regular", Price: 250}, {Name: "Large", Price: 350},
	}},
	{ID: "zinger-shawarma", Name: "Zinger Shawarma", Price: 350, Category: models.CategoryShawarmas, Description: "Crispy zinger strips wrapped with fries", Image: "/zinger-shawarma.jpg"},
	{ID: "mexican-wrap", Name: "Mexican Wrap", Price: 480, Category: models.CategoryShawarmas, Description: "Spicy chicken, beans and salsa in a tortilla", Image: "/mexican-wrap.jpg", IsNew: true},

	{ID: "club-sandwich", Name: "Club Sandwich", Price: 450, Category: models.CategorySandwiches, Description: "Triple decker with chicken, egg and cheese", Image: "/club-sandwich.jpg"},

	{ID: "hot-wings", Name: "Hot Wings", Price: 400, Category: models.CategoryWings, Description: "Crispy wings tossed in house hot sauce", Image: "/hot-wings.jpg", Sizes: []models.Size{
		{Name: "6 Pcs", Price: 400}, {Name: "12 Pcs", Price: 750},
	}},

	{ID: "plain-fries", Name: "Plain Fries", Price: 150, Category: models.CategoryFries, Description: "Crispy golden goodness", Image: "/fries.jpg", Sizes: []models.Size{
		{Name: "Half", Price: 150}, {Name: "Regular", Price: 200}, {Name: "Full", Price: 300},
	}},
	{ID: "loaded-fries", Name: "Loaded Cheese Fries", Price: 450, Category: models.CategoryFries, Description: "Fries with cheese sauce, jalapenos and chicken", Image: "/loaded-cheese-fries.jpg", IsPopular: true},

	{ID: "soft-drink", Name: "Soft Drink", Price: 100, Category: models.CategoryDrinks, Image: "/soft-drink.jpg", Sizes: []models.Size{
		{Name: "Regular", Price: 100}, {Name: "345ml", Price: 120}, {Name: "1 Ltr", Price: 200}, {Name: "1.5 Ltr", Price: 260},
	}},
	{ID: "mint-margarita", Name: "Mint Margarita", Price: 250, Category: models.CategoryDrinks, Description: "Fresh mint, lemon and soda", Image: "/mint-margarita.jpg"},
}

var deals = []models.Deal{
	{ID: "deal-1", Name: "Deal 01", Items: []string{"Anda Shami Burger", "Reg Fries", "Salad", "Reg Drink"}, Price: 350, Image: "/burger-combo.png", Tag: "Best Value"},
	{ID: "deal-2", Name: "Deal 02", Items: []string{"1 Zinger Burger", "Reg Fries", "Salad", "Reg Drink"}, Price: 500, Image: "/double-burger-combo.jpg", Tag: "Popular"},
	{ID: "deal-3", Name: "Deal 03", Items: []string{"1 Tikka Burger", "Reg Fries", "Salad", "Reg Drink"}, Price: 550, Image: "/burger-combo.png"},
	{ID: "deal-4", Name: "Deal 04", Items: []string{"1 Zinger Shawarma", "Reg Fries", "Salad", "Reg Drink"}, Price: 550, Image: "/chicken-shawarma-wrap.png"},
	{ID: "deal-5", Name: "Deal 05", Items: []string{"1 Grill Burger", "Reg Fries", "Salad", "340ml Drink"}, Price: 650, Image: "/burger-combo.png"},
	{ID: "deal-6", Name: "Deal 06", Items: []string{"1 Chicken Burger", "1 Zinger Burger", "Reg Fries Salad", "1 Ltr Drink"}, Price: 840, Image: "/double-burger-combo.jpg", Tag: "Family Favorite"},
	{ID: "deal-7", Name: "Deal 07", Items: []string{"1 Club Sandwich", "1 Pizza Burger", "Reg Fries Salad", "1 Ltr Drink"}, Price: 940, Image: "/family-feast-pizza-combo.jpg"},
	{ID: "deal-8", Name: "Deal 08", Items: []string{"2 Zinger Burger", "Reg Fries", "Salad", "1 Ltr Drink"}, Price: 950, Image: "/double-burger-combo.jpg"},
	{ID: "deal-9", Name: "Deal 09", Items: []string{"1 Mexican Wrap", "1 Hot Wings", "Salad", "1.5 Ltr Drink"}, Price: 1150, Image: "/chicken-shawarma-wrap.png"},
	{ID: "deal-10", Name: "Deal 10", Items: []string{"1 Small Pizza", "2 Reg. Shawarma", "Half Fries", "1 Ltr Drink"}, Price: 1490, Image: "/family-feast-pizza-combo.jpg"},
	{ID: "deal-11", Name: "Deal 11", Items: []string{"4 Zinger Burger", "Half Fries", "1.5 Ltr Drink"}, Price: 1670, Image: "/double-burger-combo.jpg"},
	{ID: "deal-12", Name: "Deal 12", Items: []string{"5 Reg. Shawarma", "Reg Fries", "1.5 Ltr Drink"}, Price: 1900, Image: "/chicken-shawarma-wrap.png"},
	{ID: "deal-13", Name: "Deal 13", Items: []string{"2 Medium Pizzas", "Full Fries", "1.5 Ltr Drink"}, Price: 2450, Image: "/family-feast-pizza-combo.jpg"},
	{ID: "deal-14", Name: "Deal 14", Items: []string{"2 Large Pizzas", "Full Fries", "Half Ltr Drink"}, Price: 3400, Image: "/family-feast-pizza-combo.jpg"},
	{ID: "deal-15", Name: "Deal 15", Items: []string{"1 Family Pizza", "12 Hot Wings", "2 Chicken Shawarmas", "2 Zinger Burgers", "Full Fries", "1.5 Ltr Drink"}, Price: 4700, Image: "/family-feast-pizza-combo.jpg", Tag: "Ultimate Feast"},
}
