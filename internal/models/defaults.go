package models

// DefaultContent returns the starter content a new section of type t is
// created with. Unknown types get empty RawContent.
func DefaultContent(t SectionType) Content {
	switch t {
	case SectionHero:
		return HeroContent{
			Headline:    "Your headline goes here",
			Subheadline: "Explain in one sentence what you offer and who it is for.",
			CTAText:     "Get started",
			CTAURL:      "#",
		}
	case SectionFeatures:
		return FeaturesContent{
			Title: "Why choose us",
			Items: []FeatureItem{
				{Icon: "zap", Title: "Fast", Description: "Describe the first benefit."},
				{Icon: "shield", Title: "Reliable", Description: "Describe the second benefit."},
				{Icon: "heart", Title: "Loved", Description: "Describe the third benefit."},
			},
		}
	case SectionTestimonials:
		return TestimonialsContent{
			Title: "What our customers say",
			Items: []Testimonial{
				{Quote: "This changed how we work.", Author: "Jane Doe", Role: "Founder", Rating: 5},
				{Quote: "Setup took five minutes.", Author: "John Smith", Role: "Marketing lead", Rating: 5},
			},
		}
	case SectionFAQ:
		return FAQContent{
			Title: "Frequently asked questions",
			Items: []FAQItem{
				{Question: "How does it work?", Answer: "Describe the process in a sentence or two."},
				{Question: "Can I cancel anytime?", Answer: "Yes, there are no long-term contracts."},
			},
		}
	case SectionCTA:
		return CTAContent{
			Headline:   "Ready to get started?",
			Body:       "Join thousands of happy customers today.",
			ButtonText: "Start now",
			ButtonURL:  "#",
		}
	case SectionHeader:
		return HeaderContent{
			LogoText: "Brand",
			Links: []Link{
				{Label: "Features", URL: "#features"},
				{Label: "Pricing", URL: "#pricing"},
				{Label: "FAQ", URL: "#faq"},
			},
			CTAText: "Sign up",
			CTAURL:  "#",
		}
	case SectionFooter:
		return FooterContent{
			CompanyName: "Brand",
			Tagline:     "Made with care.",
			Links:       []Link{{Label: "Privacy", URL: "#"}, {Label: "Terms", URL: "#"}},
			Copyright:   "All rights reserved.",
		}
	case SectionCarousel:
		return CarouselContent{
			Title:  "Gallery",
			Slides: []Slide{{Caption: "First slide"}, {Caption: "Second slide"}},
		}
	case SectionLeadForm:
		return LeadFormContent{
			Headline: "Get your free guide",
			Body:     "Leave your details and we will be in touch.",
			Fields: []FormField{
				{Name: "name", Label: "Name", Type: "text", Required: true},
				{Name: "email", Label: "Email", Type: "email", Required: true},
			},
			SubmitText:     "Send",
			SuccessMessage: "Thanks! Check your inbox.",
		}
	case SectionQuiz:
		return QuizContent{
			Title: "Find the right plan",
			Questions: []QuizQuestion{
				{Question: "How big is your team?", Options: []string{"Just me", "2-10", "More than 10"}},
			},
			ResultText: "We recommend the plan that fits your answers.",
		}
	case SectionVideo:
		return VideoContent{Title: "See it in action"}
	case SectionCredibility:
		return CredibilityContent{
			Title: "Trusted by teams everywhere",
			Logos: []string{},
			Stats: []Stat{{Value: "10k+", Label: "Customers"}, {Value: "99.9%", Label: "Uptime"}},
		}
	case SectionHowItWorks:
		return HowItWorksContent{
			Title: "How it works",
			Steps: []Step{
				{Title: "Sign up", Description: "Create your account."},
				{Title: "Set up", Description: "Configure it in minutes."},
				{Title: "Grow", Description: "Watch the results."},
			},
		}
	case SectionPricing:
		return PricingContent{
			Title: "Simple pricing",
			Plans: []Plan{
				{Name: "Starter", Price: "$9", Period: "month", Features: []string{"1 project", "Email support"}, CTAText: "Choose"},
				{Name: "Pro", Price: "$29", Period: "month", Features: []string{"Unlimited projects", "Priority support"}, CTAText: "Choose", Highlighted: true},
			},
		}
	case SectionComparison:
		return ComparisonContent{
			Title:   "How we compare",
			Columns: []string{"Us", "Others"},
			Rows: []ComparisonRow{
				{Feature: "Setup time", Values: []string{"Minutes", "Weeks"}},
				{Feature: "Support", Values: []string{"24/7", "Business hours"}},
			},
		}
	}
	return RawContent{}
}
