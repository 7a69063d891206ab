// Package seed contiene el catálogo y la configuración por defecto.
// La base los usa cuando la colección está vacía y el store cuando no puede hidratar.
package seed

import "storefront/internal/models"

// Products devuelve una copia nueva del catálogo por defecto
func Products() []models.Product {
	products := []models.Product{
		{
			ID:            "1",
			Name:          "Sony PlayStation 5 Console",
			Price:         499.99,
			OriginalPrice: 599.99,
			Category:      "gaming-consoles",
			Brand:         "Sony",
			Image:         "https://images.unsplash.com/photo-1606813907291-d86efa9b94db?w=500&h=500&fit=crop&crop=center",
			Images: []string{
				"https://images.unsplash.com/photo-1606813907291-d86efa9b94db?w=500&h=500&fit=crop&crop=center",
				"https://images.unsplash.com/photo-1607853202273-797f1c22a38e?w=500&h=500&fit=crop&crop=center",
			},
			Rating:      4.9,
			Reviews:     2847,
			Description: "Experience lightning-fast loading with an ultra-high speed SSD, deeper immersion with support for haptic feedback, adaptive triggers and 3D Audio.",
			Specifications: []string{
				"CPU: AMD Zen 2-based CPU with 8 cores at 3.5GHz",
				"GPU: 10.28 TFLOPs, 36 CUs at 2.23GHz",
				"Memory: 16GB GDDR6/256-bit",
				"Storage: 825GB SSD",
			},
			StockCount: 25,
			Featured:   true,
		},
		{
			ID:            "2",
			Name:          "Microsoft Xbox Series X Console",
			Price:         449.99,
			OriginalPrice: 499.99,
			Category:      "gaming-consoles",
			Brand:         "Microsoft",
			Image:         "https://images.unsplash.com/photo-1621259182978-fbf93132d53d?w=500&h=500&fit=crop&crop=center",
			Rating:        4.8,
			Reviews:       1923,
			Description:   "The fastest, most powerful Xbox ever. Experience next-gen speed and performance with Xbox Series X.",
			Specifications: []string{
				"CPU: AMD Zen 2 8-core at 3.8GHz",
				"GPU: 12 TFLOPs AMD RDNA 2",
				"Memory: 16GB GDDR6",
				"Storage: 1TB NVMe SSD",
			},
			StockCount: 18,
			Featured:   true,
		},
		{
			ID:            "3",
			Name:          "NVIDIA GeForce RTX 4080 Graphics Card",
			Price:         899.99,
			OriginalPrice: 1199.99,
			Category:      "graphics-cards",
			Brand:         "NVIDIA",
			Image:         "https://images.unsplash.com/photo-1591488320449-011701bb6704?w=500&h=500&fit=crop&crop=center",
			Rating:        4.8,
			Reviews:       892,
			Description:   "Experience next-generation gaming with the RTX 4080. Featuring advanced ray tracing and DLSS 3 technology.",
			Specifications: []string{
				"CUDA Cores: 9728",
				"Memory: 16GB GDDR6X",
				"Ray Tracing Cores: 76",
			},
			StockCount: 15,
			Featured:   true,
		},
		{
			ID:            "4",
			Name:          "Razer DeathAdder V3 Pro Wireless Gaming Mouse",
			Price:         129.99,
			OriginalPrice: 149.99,
			Category:      "gaming-mice",
			Brand:         "Razer",
			Image:         "https://images.unsplash.com/photo-1527814050087-3793815479db?w=500&h=500&fit=crop&crop=center",
			Rating:        4.6,
			Reviews:       567,
			Description:   "Engineered for esports with Focus Pro 30K Sensor, 90-hour battery life, and ultra-lightweight 63g design.",
			Specifications: []string{
				"Sensor: Focus Pro 30K",
				"Weight: 63g",
				"Battery Life: Up to 90 hours",
			},
			StockCount: 78,
		},
		{
			ID:            "5",
			Name:          "SteelSeries Apex Pro TKL Gaming Keyboard",
			Price:         179.99,
			OriginalPrice: 199.99,
			Category:      "gaming-keyboards",
			Brand:         "SteelSeries",
			Image:         "https://images.unsplash.com/photo-1541140532154-b024d705b90a?w=500&h=500&fit=crop&crop=center",
			Rating:        4.7,
			Reviews:       423,
			Description:   "World's fastest mechanical gaming keyboard with adjustable OmniPoint switches and per-key RGB illumination.",
			Specifications: []string{
				"Switches: OmniPoint Adjustable",
				"Layout: Tenkeyless (87-key)",
				"Polling Rate: 1000Hz",
			},
			StockCount: 34,
		},
	}
	for i := range products {
		if len(products[i].Images) == 0 {
			products[i].Images = []string{products[i].Image}
		}
		products[i].Normalize()
	}
	return products
}

// PaymentMethods son los métodos sembrados en settings
func PaymentMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{
			ID:          "1",
			Name:        "PayPal Business",
			Type:        models.PaymentPayPal,
			Email:       "admin@thorpchristopher.com",
			Status:      models.PaymentActive,
			Description: "Primary PayPal account for receiving payments",
		},
		{
			ID:          "2",
			Name:        "Cash App",
			Type:        models.PaymentCashApp,
			Handle:      "$ThorpChristopher",
			Status:      models.PaymentActive,
			Description: "Cash App account for quick payments",
		},
	}
}

// FallbackPaymentMethods se usan en el cliente cuando no hay datos del servidor
func FallbackPaymentMethods() []models.PaymentMethod {
	return []models.PaymentMethod{
		{
			ID:          "1",
			Name:        "PayPal",
			Type:        models.PaymentPayPal,
			Email:       "payments@thorpchristopher.com",
			Status:      models.PaymentActive,
			Description: "Pay securely with PayPal",
		},
	}
}

// Settings construye el documento de settings por defecto
func Settings() models.Settings {
	s := models.Settings{}
	_ = s.SetPaymentMethods(PaymentMethods())
	return s
}
