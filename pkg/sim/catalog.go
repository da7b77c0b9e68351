package sim

// DefaultCatalog is the compiled-in action card set, used when no catalog
// file is configured. The catalog is static configuration: every card in
// hand or deck must come from it.
func DefaultCatalog() []ActionCard {
	return []ActionCard{
		{ID: "c_code_sprint", Title: "Code Sprint", Description: "Intense development cycle.", Cost: "Morale", Category: CardProduct, Icon: "Code", EffectDirective: "Focus entirely on Product Quality. Agents work hard but lose morale."},
		{ID: "c_marketing", Title: "Viral Campaign", Description: "Run ads on social media.", Cost: "$5k", Category: CardGrowth, Icon: "Megaphone", EffectDirective: "Spend $5,000 to boost Active Users significantly. Requires Marketing agent."},
		{ID: "c_fundraise", Title: "Seed Pitch", Description: "Meet with investors.", Cost: "Reputation", Category: CardFinance, Icon: "DollarSign", EffectDirective: "Attempt to raise cash. Success depends on Reputation and Product Quality."},
		{ID: "c_hackathon", Title: "Hackathon", Description: "Weekend coding event.", Cost: "$2k", Category: CardProduct, Icon: "Zap", EffectDirective: "Boost Product Quality and Morale slightly, but costs money."},
		{ID: "c_hire", Title: "Scout Talent", Description: "Look for new hires.", Cost: "$1k", Category: CardHR, Icon: "UserPlus", EffectDirective: "Search for a high-skill agent to hire. High probability of finding a candidate."},
		{ID: "c_cold_email", Title: "Cold Outreach", Description: "Email potential users.", Cost: "Free", Category: CardGrowth, Icon: "Mail", EffectDirective: "Small boost to Users for free. Low impact but safe."},
		{ID: "c_optimize", Title: "Refactor Code", Description: "Clean up technical debt.", Cost: "Time", Category: CardProduct, Icon: "Feather", EffectDirective: "Small Product Quality boost, prevents future bugs/crashes. Low stress."},
		{ID: "c_pivot", Title: "Mini Pivot", Description: "Adjust product fit.", Cost: "Users", Category: CardRisk, Icon: "Shuffle", EffectDirective: "Sacrifice some current users to significantly boost Product Quality/Market Fit."},
	}
}
